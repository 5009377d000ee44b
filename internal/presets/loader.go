package presets

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonny/creditwatch/backend/internal/filtering"
)

// Load reads and validates a preset YAML file
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Set, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read presets: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates preset YAML
func Parse(data []byte) (*Set, []Warning, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&file); err != nil {
		return nil, nil, fmt.Errorf("decode presets: %w", err)
	}

	warnings, err := Validate(&file)
	if err != nil {
		return nil, warnings, err
	}

	set := &Set{
		file:   file,
		byName: make(map[string]*filtering.Criteria, len(file.Presets)),
	}
	for _, p := range file.Presets {
		// Validate 통과 후이므로 변환 오류 없음
		c, _ := p.Criteria.Criteria()
		set.byName[strings.ToLower(p.Name)] = c
	}

	if set.hash, err = Hash(&file); err != nil {
		return nil, warnings, err
	}

	return set, warnings, nil
}

// Hash generates SHA256 hash from File (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(file *File) (string, error) {
	jsonBytes, err := json.Marshal(file)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
