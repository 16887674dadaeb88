package scorer

import (
	"math"
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Signal weights and caps. The score is a 0-100 composite of audience size,
// seniority signals, and profile depth.
const (
	followersPerPoint    = 200.0 // 1000 followers = 5 points
	followersCap         = 30.0
	seniorityMatchPoints = 10.0
	skillsPerPoint       = 1.0
	skillsCap            = 20.0
	experiencePerPoint   = 1.5
	experienceCap        = 20.0
	scoreCap             = 100.0
)

// Popularity computes the popularity score for a scraped profile. Absent
// fields contribute nothing: a profile with no readable follower count is not
// treated as having zero followers, it simply earns no audience points.
func Popularity(p *model.Profile, seniorityKeywords []string) float64 {
	if p == nil {
		return 0
	}

	score := 0.0

	if p.Followers != nil {
		score += math.Min(followersCap, float64(*p.Followers)/followersPerPoint)
	}

	blob := strings.ToLower(model.Deref(p.Headline) + " " + model.Deref(p.About))
	for _, kw := range seniorityKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw == "" {
			continue
		}
		if strings.Contains(blob, kw) {
			score += seniorityMatchPoints
		}
	}

	score += math.Min(skillsCap, float64(len(p.Skills))*skillsPerPoint)
	score += math.Min(experienceCap, float64(len(p.Experiences))*experiencePerPoint)

	return math.Round(math.Min(score, scoreCap)*100) / 100
}
