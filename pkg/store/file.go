package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// FileStore はプロジェクトファイル（YAML / JSON）に永続化する MemoryStore です。
// 状態が置き換わるたびにファイルへ保存します。
type FileStore struct {
	*MemoryStore
	path string
	lock *flock.Flock
}

// OpenFileStore はプロジェクトファイルを読み込み、FileStore を生成します。
// ファイルが存在しない場合は空の状態から開始し、最初の更新時に作成します。
// 前回のプロセスが生成中に終了した場合に備え、読み込んだ生成中フラグは解除します。
func OpenFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("path は必須です")
	}
	fs := &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}

	state, err := fs.load()
	if err != nil {
		return nil, err
	}

	opts = append(opts, WithOnChange(fs.save))
	fs.MemoryStore = NewMemoryStore(clearGenerating(state), opts...)
	return fs, nil
}

// Path はプロジェクトファイルのパスを返します。
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) load() (*domain.ProjectState, error) {
	if err := fs.lock.RLock(); err != nil {
		return nil, fmt.Errorf("プロジェクトファイルのロックに失敗しました: %w", err)
	}
	defer func() { _ = fs.lock.Unlock() }()

	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.ProjectState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロジェクトファイルの読み込みに失敗しました: %w", err)
	}
	return Decode(fs.path, data)
}

func (fs *FileStore) save(state *domain.ProjectState) error {
	data, err := Encode(fs.path, state)
	if err != nil {
		return err
	}

	if err := fs.lock.Lock(); err != nil {
		return fmt.Errorf("プロジェクトファイルのロックに失敗しました: %w", err)
	}
	defer func() { _ = fs.lock.Unlock() }()

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("プロジェクトファイルの書き込みに失敗しました: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("プロジェクトファイルの置き換えに失敗しました: %w", err)
	}
	return nil
}

// Decode は拡張子に応じて YAML または JSON の ProjectState を読み込みます。
func Decode(path string, data []byte) (*domain.ProjectState, error) {
	var state domain.ProjectState
	if isJSON(path) {
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("JSON の解析に失敗しました (%s): %w", path, err)
		}
		return &state, nil
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("YAML の解析に失敗しました (%s): %w", path, err)
	}
	return &state, nil
}

// Encode は拡張子に応じて ProjectState を YAML または JSON に変換します。
func Encode(path string, state *domain.ProjectState) ([]byte, error) {
	if isJSON(path) {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("JSON への変換に失敗しました: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(state); err != nil {
		return nil, fmt.Errorf("YAML への変換に失敗しました: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
