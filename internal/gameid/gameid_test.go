package gameid

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	id := New()

	if len(id) != 26 {
		t.Errorf("expected 26 characters, got %d", len(id))
	}
	if err := Validate(id); err != nil {
		t.Errorf("generated id failed validation: %v", err)
	}
	if id[0] > '7' {
		t.Errorf("first character %c exceeds maximum '7'", id[0])
	}
}

func TestNewUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if ids[id] {
			t.Errorf("duplicate id generated: %s", id)
		}
		ids[id] = true
	}
}

func TestNewTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, New())
		time.Sleep(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		if strings.Compare(ids[i-1], ids[i]) >= 0 {
			t.Errorf("ids not sorted: %s >= %s", ids[i-1], ids[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid id", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase not allowed", "01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAlphabet(t *testing.T) {
	if len(alphabet) != 32 {
		t.Errorf("alphabet should have 32 characters, got %d", len(alphabet))
	}
	seen := make(map[rune]bool)
	for _, char := range alphabet {
		if seen[char] {
			t.Errorf("duplicate character in alphabet: %c", char)
		}
		seen[char] = true
	}
	forbidden := "ilou"
	for _, char := range forbidden {
		if strings.ContainsRune(alphabet, char) {
			t.Errorf("alphabet should not contain %c", char)
		}
	}
}

type mockRandSource struct {
	values []int
	index  int
}

func newMockRandSource(values ...int) *mockRandSource {
	return &mockRandSource{values: values}
}

func (m *mockRandSource) Intn(n int) int {
	if m.index >= len(m.values) {
		return 0
	}
	val := m.values[m.index] % n
	m.index++
	return val
}

func TestNewWithRandSource(t *testing.T) {
	mockRand := newMockRandSource(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16)
	id1 := NewWithRandSource(mockRand)

	mockRand2 := newMockRandSource(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16)
	id2 := NewWithRandSource(mockRand2)

	if len(id1) != 26 || len(id2) != 26 {
		t.Errorf("expected 26-character ids, got %d and %d", len(id1), len(id2))
	}
	if err := Validate(id1); err != nil {
		t.Errorf("id1 failed validation: %v", err)
	}
	if err := Validate(id2); err != nil {
		t.Errorf("id2 failed validation: %v", err)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	values := make([]int, 20)
	for i := range values {
		values[i] = i + 100
	}
	gen := NewGenerator(newMockRandSource(values...))

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, gen.Generate())
	}
	idMap := make(map[string]bool)
	for i, id := range ids {
		if err := Validate(id); err != nil {
			t.Errorf("id %d failed validation: %v", i, err)
		}
		if idMap[id] {
			t.Errorf("duplicate id generated: %s", id)
		}
		idMap[id] = true
	}
}
