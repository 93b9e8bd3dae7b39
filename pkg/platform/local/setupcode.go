package local

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrSetupCodeLength   = errors.New("setup code must have 11 or 21 digits")
	ErrSetupCodeDigits   = errors.New("setup code must contain only digits")
	ErrSetupCodeChecksum = errors.New("setup code check digit mismatch")
	ErrSetupCodeVersion  = errors.New("setup code has an unsupported leading digit")
	ErrSetupCodePasscode = errors.New("setup code passcode is not allowed")
)

// SetupCode is a decoded Matter manual pairing code.
type SetupCode struct {
	Discriminator uint8  // short discriminator, 4 bits
	Passcode      uint32 // 27 bits
	VendorID      uint16 // zero for 11-digit codes
	ProductID     uint16 // zero for 11-digit codes
}

// ParseSetupCode decodes a manual pairing code. Dashes and spaces are ignored.
func ParseSetupCode(code string) (SetupCode, error) {
	digits := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, code)

	if len(digits) != 11 && len(digits) != 21 {
		return SetupCode{}, ErrSetupCodeLength
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return SetupCode{}, ErrSetupCodeDigits
		}
	}
	if !verhoeffValid(digits) {
		return SetupCode{}, ErrSetupCodeChecksum
	}

	first := digits[0] - '0'
	if first > 7 {
		return SetupCode{}, ErrSetupCodeVersion
	}
	long := first&0x4 != 0
	if long != (len(digits) == 21) {
		return SetupCode{}, ErrSetupCodeLength
	}

	chunk1 := uint32(first)
	chunk2 := atoi(digits[1:6])
	chunk3 := atoi(digits[6:10])

	sc := SetupCode{
		Discriminator: uint8((chunk1&0x3)<<2 | (chunk2>>14)&0x3),
		Passcode:      (chunk3&0x1FFF)<<14 | chunk2&0x3FFF,
	}
	if long {
		sc.VendorID = uint16(atoi(digits[10:15]))
		sc.ProductID = uint16(atoi(digits[15:20]))
	}

	if !validPasscode(sc.Passcode) {
		return SetupCode{}, ErrSetupCodePasscode
	}
	return sc, nil
}

func atoi(s string) uint32 {
	n, _ := strconv.ParseUint(s, 10, 32)
	return uint32(n)
}

// validPasscode rejects the trivial passcodes Matter disallows.
func validPasscode(p uint32) bool {
	switch p {
	case 0, 11111111, 22222222, 33333333, 44444444, 55555555,
		66666666, 77777777, 88888888, 99999999, 12345678, 87654321:
		return false
	}
	return p < 1<<27
}

var verhoeffD = [10][10]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var verhoeffP = [8][10]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 7, 0, 6, 8},
	{4, 2, 8, 6, 5, 7, 0, 3, 9, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// verhoeffValid checks the trailing Verhoeff check digit of digits.
func verhoeffValid(digits string) bool {
	var c uint8
	for i := 0; i < len(digits); i++ {
		d := digits[len(digits)-1-i] - '0'
		c = verhoeffD[c][verhoeffP[i%8][d]]
	}
	return c == 0
}
