// Package file persists discovered instance API keys encrypted at rest, so a
// key discovered while authentication was disabled survives the instance
// turning authentication on.
package file

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/argon2"

	"github.com/declarr/declarr/faults"
)

const (
	storeVersion     = 1
	keyLengthBytes   = 32
	nonceLengthBytes = 12
	saltLengthBytes  = 16

	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

type APIKeyCache struct {
	path       string
	passphrase []byte

	mu sync.Mutex
}

type encryptedStore struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type snapshot struct {
	Keys map[string]string `json:"keys"`
}

func NewAPIKeyCache(path string, passphrase string) (*APIKeyCache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "api key cache path is required", nil)
	}
	if strings.TrimSpace(passphrase) == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "api key cache passphrase is required", nil)
	}
	return &APIKeyCache{
		path:       filepath.Clean(path),
		passphrase: []byte(strings.TrimSpace(passphrase)),
	}, nil
}

// Store saves the API key for an instance URL.
func (c *APIKeyCache) Store(_ context.Context, instanceURL string, apiKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.readLocked()
	if err != nil {
		return err
	}
	snap.Keys[cacheKey(instanceURL)] = apiKey
	return c.writeLocked(snap)
}

// Get returns the cached API key for an instance URL.
func (c *APIKeyCache) Get(_ context.Context, instanceURL string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.readLocked()
	if err != nil {
		return "", err
	}
	key, found := snap.Keys[cacheKey(instanceURL)]
	if !found {
		return "", faults.NewTypedError(faults.NotFoundError, "no cached API key for this instance", nil)
	}
	return key, nil
}

func (c *APIKeyCache) Delete(_ context.Context, instanceURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.readLocked()
	if err != nil {
		return err
	}
	delete(snap.Keys, cacheKey(instanceURL))
	return c.writeLocked(snap)
}

func cacheKey(instanceURL string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(instanceURL)), "/")
}

func (c *APIKeyCache) readLocked() (snapshot, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return snapshot{Keys: make(map[string]string)}, nil
	}
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "could not read the api key cache", err)
	}

	var store encryptedStore
	if err := json.Unmarshal(data, &store); err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache is corrupt", err)
	}
	if store.Version != storeVersion {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache version is not supported", nil)
	}

	salt, err := base64.StdEncoding.DecodeString(store.Salt)
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache salt is corrupt", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(store.Nonce)
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache nonce is corrupt", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(store.Ciphertext)
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache payload is corrupt", err)
	}

	gcm, err := c.cipher(salt)
	if err != nil {
		return snapshot{}, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return snapshot{}, faults.NewTypedError(faults.AuthError, "api key cache passphrase is wrong or the cache is corrupt", err)
	}

	var snap snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return snapshot{}, faults.NewTypedError(faults.InternalError, "api key cache contents are corrupt", err)
	}
	if snap.Keys == nil {
		snap.Keys = make(map[string]string)
	}
	return snap, nil
}

func (c *APIKeyCache) writeLocked(snap snapshot) error {
	plaintext, err := json.Marshal(snap)
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "could not encode the api key cache", err)
	}

	salt := make([]byte, saltLengthBytes)
	if _, err := rand.Read(salt); err != nil {
		return faults.NewTypedError(faults.InternalError, "could not generate a salt", err)
	}
	gcm, err := c.cipher(salt)
	if err != nil {
		return err
	}
	nonce := make([]byte, nonceLengthBytes)
	if _, err := rand.Read(nonce); err != nil {
		return faults.NewTypedError(faults.InternalError, "could not generate a nonce", err)
	}

	store := encryptedStore{
		Version:    storeVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plaintext, nil)),
	}
	data, err := json.Marshal(store)
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "could not encode the api key cache", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return faults.NewTypedError(faults.InternalError, "could not create the cache directory", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return faults.NewTypedError(faults.InternalError, "could not write the api key cache", err)
	}
	return nil
}

func (c *APIKeyCache) cipher(salt []byte) (cipher.AEAD, error) {
	derived := argon2.IDKey(c.passphrase, salt, kdfTime, kdfMemory, kdfThreads, keyLengthBytes)
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "could not build the cache cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "could not build the cache cipher", err)
	}
	return gcm, nil
}
