package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAvailablePort(t *testing.T) {
	never := func(port int) bool { return false }

	tests := []struct {
		name     string
		start    int
		end      int
		excluded map[int]bool
		live     func(int) bool
		want     int
		found    bool
	}{
		{"first port free", 3000, 3009, nil, never, 3000, true},
		{"skips excluded", 3000, 3009, map[int]bool{3000: true, 3001: true}, never, 3002, true},
		{"skips live", 3000, 3009, nil, func(p int) bool { return p < 3003 }, 3003, true},
		{"all excluded", 3000, 3001, map[int]bool{3000: true, 3001: true}, never, 0, false},
		{"all live", 3000, 3001, nil, func(int) bool { return true }, 0, false},
		{"empty range", 3010, 3000, nil, never, 0, false},
		{"single port range", 8080, 8080, nil, never, 8080, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindAvailablePort(tt.start, tt.end, tt.excluded, tt.live)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAvailablePort_NilLiveCheck(t *testing.T) {
	got, found := FindAvailablePort(5000, 5002, map[int]bool{5000: true}, nil)
	assert.True(t, found)
	assert.Equal(t, 5001, got)
}
