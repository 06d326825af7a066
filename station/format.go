// Package station collects what badges broadcast, as heard by a receiver
// badge on a serial port, into a sqlite database.
//
// The station badge prints one code per line as eight upper case hex digits
// followed by CR LF.
package station

const hexDigits = "0123456789ABCDEF"

// LineLen is the length of one formatted code including CR LF.
const LineLen = 10

// AppendCode appends code in the station line format. It does not allocate
// when dst has room, so firmware can call it from its main loop.
func AppendCode(dst []byte, code uint32) []byte {
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[code>>shift&0xF])
	}
	return append(dst, '\r', '\n')
}
