package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"component-quality-checker/internal/types"
)

// 페이로드 형식이 바뀌면 증가
const schemaVersion uint16 = 1

// Key 파일 이름 + 내용 + 설정 지문으로 만든 캐시 키
type Key [32]byte

// NewKey 설정 지문(fingerprint)이 다르면 같은 파일도 다른 키가 된다
func NewKey(fileName, content, fingerprint string) Key {
	h := blake3.New()
	for _, part := range []string{fingerprint, fileName, content} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Payload 디스크에 저장되는 파일별 분석 결과
type Payload struct {
	Schema uint16        `msgpack:"schema"`
	File   string        `msgpack:"file"`
	Issues []types.Issue `msgpack:"issues"`
}

// DiskCache 파일별 이슈 캐시. 동시 접근에 안전하다.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open dir에 캐시를 연다. dir이 비어 있으면 사용자 캐시 디렉토리를 사용.
func Open(dir string) (*DiskCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		dir = filepath.Join(base, "cqc")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir 캐시 루트
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put 결과를 임시 파일에 쓴 뒤 원자적으로 교체
func (c *DiskCache) Put(key Key, fileName string, issues []types.Issue) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload := Payload{Schema: schemaVersion, File: fileName, Issues: issues}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", fileName, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get 캐시 조회. 항목이 없거나 스키마가 다르면 (nil, false, nil).
func (c *DiskCache) Get(key Key) ([]types.Issue, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload Payload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	return payload.Issues, true, nil
}

// Clear 캐시 항목 전체 삭제
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}
