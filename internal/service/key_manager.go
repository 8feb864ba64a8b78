package service

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

const rsaKeyBits = 2048

// KeyManager holds the RSA key pair used to sign and verify tokens. The pair
// lives only in memory: it is generated on startup and never written to disk,
// so a restart invalidates every token issued by the previous process.
type KeyManager struct {
	privateKey *rsa.PrivateKey
}

func NewKeyManager() (*KeyManager, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key pair: %w", err)
	}

	return &KeyManager{privateKey: key}, nil
}

func (k *KeyManager) Private() *rsa.PrivateKey {
	return k.privateKey
}

func (k *KeyManager) Public() *rsa.PublicKey {
	return &k.privateKey.PublicKey
}
