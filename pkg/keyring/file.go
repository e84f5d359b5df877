package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps AES-GCM encrypted secrets in a JSON file keyed by
// "service:account". The key is the SHA-256 of the master password.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  []byte
}

type fileEntry struct {
	Service string `json:"service"`
	Account string `json:"account"`
	Data    string `json:"data"`
}

// NewFileStore prepares a file store. The file itself is created on the
// first Set.
func NewFileStore(path, masterPassword string) (*FileStore, error) {
	if masterPassword == "" {
		return nil, errors.New("keyring: file store requires a master password")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}
	sum := sha256.Sum256([]byte(masterPassword))
	return &FileStore{path: path, key: sum[:]}, nil
}

func (f *FileStore) load() (map[string]fileEntry, error) {
	entries := map[string]fileEntry{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("keyring: corrupt file %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *FileStore) save(entries map[string]fileEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(f.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (f *FileStore) seal(plain string) (string, error) {
	aead, err := f.gcm()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(aead.Seal(nonce, nonce, []byte(plain), nil)), nil
}

func (f *FileStore) open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	aead, err := f.gcm()
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", errors.New("keyring: ciphertext too short")
	}
	plain, err := aead.Open(nil, data[:aead.NonceSize()], data[aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("keyring: wrong master password or tampered entry: %w", err)
	}
	return string(plain), nil
}

func (f *FileStore) Get(service, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return "", err
	}
	e, ok := entries[service+":"+account]
	if !ok {
		return "", ErrNotFound
	}
	return f.open(e.Data)
}

func (f *FileStore) Set(service, account, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	sealed, err := f.seal(secret)
	if err != nil {
		return err
	}
	entries[service+":"+account] = fileEntry{Service: service, Account: account, Data: sealed}
	return f.save(entries)
}

func (f *FileStore) Delete(service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	key := service + ":" + account
	if _, ok := entries[key]; !ok {
		return ErrNotFound
	}
	delete(entries, key)
	return f.save(entries)
}
