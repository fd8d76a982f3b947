package auth

import (
	"errors"

	"gridcentric/canaryctl/internal/util"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps tokens in the OS keychain under one service name.
type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(account string, token string) error {
	return keyring.Set(k.serviceName, util.NormalizeKey(account), token)
}

func (k *KeyringStore) GetToken(account string) (string, error) {
	token, err := keyring.Get(k.serviceName, util.NormalizeKey(account))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(account string) error {
	err := keyring.Delete(k.serviceName, util.NormalizeKey(account))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
