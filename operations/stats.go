package operations

import (
	"context"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type contributorView struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
}

type cloneDayView struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
	Uniques   int       `json:"uniques"`
}

type clonesView struct {
	Count   int            `json:"count"`
	Uniques int            `json:"uniques"`
	Clones  []cloneDayView `json:"clones"`
}

// repoStats holds whichever of the three lookups succeeded.
type repoStats struct {
	contributors []*github.Contributor
	languages    map[string]int
	clones       *github.TrafficClones
}

func statsOp() descriptor {
	return op[repoStats]{
		name:    GetRepoStats,
		call:    fetchRepoStats,
		project: projectRepoStats,
	}
}

// fetchRepoStats runs the lookups concurrently. Each may fail on its own; a
// failure is logged and its key is left out of the result.
func fetchRepoStats(ctx context.Context, c *github.Client, p Params) (repoStats, error) {
	var stats repoStats
	var g errgroup.Group

	g.Go(func() error {
		contributors, _, err := c.Repositories.ListContributors(ctx, p.Owner, p.Repo, &github.ListContributorsOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		})
		if err != nil {
			log.Warn().Err(err).Str("repo", p.fullName()).Msg("contributors lookup failed")
			return nil
		}
		stats.contributors = contributors
		return nil
	})

	g.Go(func() error {
		languages, _, err := c.Repositories.ListLanguages(ctx, p.Owner, p.Repo)
		if err != nil {
			log.Warn().Err(err).Str("repo", p.fullName()).Msg("languages lookup failed")
			return nil
		}
		stats.languages = languages
		return nil
	})

	g.Go(func() error {
		clones, _, err := c.Repositories.ListTrafficClones(ctx, p.Owner, p.Repo, &github.TrafficBreakdownOptions{Per: "day"})
		if err != nil {
			log.Warn().Err(err).Str("repo", p.fullName()).Msg("clone traffic lookup failed")
			return nil
		}
		stats.clones = clones
		return nil
	})

	_ = g.Wait()
	return stats, nil
}

func projectRepoStats(_ Params, s repoStats) Outcome {
	data := map[string]any{}

	if s.contributors != nil {
		data["contributors"] = project(s.contributors, func(c *github.Contributor) contributorView {
			return contributorView{
				Login:         c.GetLogin(),
				Contributions: c.GetContributions(),
				AvatarURL:     c.GetAvatarURL(),
				HTMLURL:       c.GetHTMLURL(),
			}
		})
		data["contributor_count"] = len(s.contributors)
	}
	if s.languages != nil {
		data["languages"] = s.languages
	}
	if s.clones != nil {
		data["clones"] = clonesView{
			Count:   s.clones.GetCount(),
			Uniques: s.clones.GetUniques(),
			Clones: project(s.clones.Clones, func(d *github.TrafficData) cloneDayView {
				return cloneDayView{Timestamp: d.GetTimestamp().Time, Count: d.GetCount(), Uniques: d.GetUniques()}
			}),
		}
	}

	return Outcome{Message: "Repository statistics retrieved", Data: data}
}
