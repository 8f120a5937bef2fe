package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/crc32"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// StringToSeed сворачивает строковый сид мира в число: CRC32 (IEEE),
// старший бит сброшен, чтобы значение помещалось в int32.
func StringToSeed(s string) uint32 {
	return crc32.ChecksumIEEE([]byte(s)) & 0x7FFFFFFF
}
