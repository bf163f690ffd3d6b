// AngelaMos | 2026
// scope_test.go

package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {
	grace := 45 * time.Minute
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		verified bool
		now      time.Time
		want     AccessScope
	}{
		{
			name:     "verified account is always full",
			verified: true,
			now:      created.Add(100 * 24 * time.Hour),
			want:     ScopeFull,
		},
		{
			name:     "unverified inside grace window",
			verified: false,
			now:      created.Add(10 * time.Minute),
			want:     ScopeFull,
		},
		{
			name:     "unverified exactly at the boundary keeps full",
			verified: false,
			now:      created.Add(grace),
			want:     ScopeFull,
		},
		{
			name:     "unverified one second past the boundary",
			verified: false,
			now:      created.Add(grace + time.Second),
			want:     ScopeExercisesOnly,
		},
		{
			name:     "unverified long after the window",
			verified: false,
			now:      created.Add(30 * 24 * time.Hour),
			want:     ScopeExercisesOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveScope(tt.verified, created, tt.now, grace)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveScopeRecoversAfterVerification(t *testing.T) {
	grace := 45 * time.Minute
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	now := created.Add(2 * time.Hour)

	assert.Equal(t, ScopeExercisesOnly, ResolveScope(false, created, now, grace))
	assert.Equal(t, ScopeFull, ResolveScope(true, created, now, grace))
}
