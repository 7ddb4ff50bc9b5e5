package util

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

func RandomInt(min, max int64) int64 {
	return min + rand.Int63n(max-min+1)
}

func RandomString(n int) string {
	return randomFrom(alphabet, n)
}

func randomFrom(chars string, n int) string {
	var sb strings.Builder

	k := len(chars)

	for i := 0; i < n; i++ {
		c := chars[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// RandomMoney returns a whole amount between 1 and 1000
func RandomMoney() int64 {
	return RandomInt(1, 1000)
}

func RandomOwner() string {
	return RandomString(6)
}

func RandomEmail() string {
	return fmt.Sprintf("%s@gmail.com", RandomString(6))
}

// RandomAccountNumber generates an IBAN-looking account number
func RandomAccountNumber() string {
	return "DE" + randomFrom(digits, 20)
}

func RandomPhone() string {
	return "+1" + randomFrom(digits, 10)
}
