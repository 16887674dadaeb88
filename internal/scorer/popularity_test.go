package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/outreach-cli/internal/model"
)

func intPtr(n int) *int { return &n }

func TestPopularity(t *testing.T) {
	seniority := []string{"CTO", "founder"}

	tests := []struct {
		name    string
		profile *model.Profile
		want    float64
	}{
		{
			name:    "nil profile",
			profile: nil,
			want:    0,
		},
		{
			name:    "empty profile",
			profile: &model.Profile{},
			want:    0,
		},
		{
			name:    "followers only",
			profile: &model.Profile{Followers: intPtr(1000)},
			want:    5,
		},
		{
			name:    "followers capped",
			profile: &model.Profile{Followers: intPtr(1_000_000)},
			want:    30,
		},
		{
			name: "absent followers is not zero followers",
			profile: &model.Profile{
				Skills: []string{"Go", "Rust"},
			},
			want: 2,
		},
		{
			name: "seniority match in headline",
			profile: &model.Profile{
				Headline: model.StringPtr("CTO at Acme"),
			},
			want: 10,
		},
		{
			name: "seniority match in about",
			profile: &model.Profile{
				About: model.StringPtr("Former founder, now angel investor."),
			},
			want: 10,
		},
		{
			name: "multiple seniority matches stack",
			profile: &model.Profile{
				Headline: model.StringPtr("Founder & CTO"),
			},
			want: 20,
		},
		{
			name: "skills capped at 20",
			profile: &model.Profile{
				Skills: make([]string, 50),
			},
			want: 20,
		},
		{
			name: "experience at 1.5 per entry capped at 20",
			profile: &model.Profile{
				Experiences: []string{"a", "b", "c"},
			},
			want: 4.5,
		},
		{
			name: "all signals combined",
			profile: &model.Profile{
				Followers:   intPtr(1_000_000),
				Headline:    model.StringPtr("Founder, CTO"),
				About:       model.StringPtr("founder of three companies, CTO twice"),
				Skills:      make([]string, 50),
				Experiences: make([]string, 50),
			},
			want: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Popularity(tt.profile, seniority), 0.001)
		})
	}
}

func TestPopularity_Rounding(t *testing.T) {
	// 333 followers = 1.665 points, rounded to 2 decimals.
	p := &model.Profile{Followers: intPtr(333)}
	assert.Equal(t, 1.67, Popularity(p, nil))
}
