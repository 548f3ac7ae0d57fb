package storage

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"mime/multipart"
	"path"
	"strings"
	"sync"
)

// Memory keeps uploads in process. It backs development runs without a bucket
// and the test suite.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStorage(baseURL string) *Memory {
	return &Memory{objects: map[string][]byte{}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *Memory) UploadFile(_ context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	data, mime, err := ReadUpload(file, allowed...)
	if err != nil {
		return "", err
	}
	objectKey := path.Join(folder, fmt.Sprintf("%s-%s%s", fileName, uuid.NewString(), mime.Extension()))

	m.mu.Lock()
	m.objects[objectKey] = data
	m.mu.Unlock()
	return objectKey, nil
}

func (m *Memory) UpdateFile(_ context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	data, _, err := ReadUpload(file, allowed...)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.objects[objectKey] = data
	m.mu.Unlock()
	return objectKey, nil
}

func (m *Memory) DeleteFile(_ context.Context, objectKey string) error {
	m.mu.Lock()
	delete(m.objects, objectKey)
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetPublicLinkKey(objectKey string) string {
	return m.baseURL + "/" + objectKey
}

func (m *Memory) GetObjectKeyFromLink(link string) string {
	prefix := m.baseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func (m *Memory) Has(objectKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[objectKey]
	return ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
