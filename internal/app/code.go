package app

import (
	"math/rand"
	"sync"
	"time"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 8
)

// CodeGenerator yields quiz join codes.
type CodeGenerator func() string

// NewRandomCodeGenerator returns 8-character codes drawn uniformly from A-Z0-9.
// Uniqueness is left to the store's constraint.
func NewRandomCodeGenerator() CodeGenerator {
	var mu sync.Mutex
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeCharset[rnd.Intn(len(codeCharset))]
		}
		return string(code)
	}
}
