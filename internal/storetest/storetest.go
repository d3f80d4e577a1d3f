// Package storetest holds the behavior every profile store must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ProfileStore is the store surface exercised by Run.
type ProfileStore interface {
	LoadProfile(ctx context.Context, ownerID uuid.UUID) (*types.ProfileSnapshot, error)
	SaveProfile(ctx context.Context, p *types.ProfileSnapshot) error
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Profile returns a complete profile for owner.
func Profile(owner uuid.UUID) *types.ProfileSnapshot {
	end := day(2021, time.June, 30)
	return &types.ProfileSnapshot{
		OwnerID:    owner,
		JobTitle:   "Software Engineer",
		Bio:        "Builds compilers.",
		PictureKey: owner.String() + ".png",
		Account: &types.AccountDetails{
			FirstName: "Grace",
			LastName:  "Hopper",
			Email:     "grace@example.com",
			Phone:     "+1 555 0100",
			Birthday:  day(1906, time.December, 9),
			Street:    "Navy Road",
			Postcode:  "10001",
			City:      "New York",
			Country:   "US",
			Language:  "en",
		},
		WorkExperiences: []types.WorkExperience{
			{ID: 2, JobTitle: "Intern", Company: "Eckert-Mauchly", Location: "Philadelphia", Start: day(2019, time.January, 1), End: &end, Description: "UNIVAC"},
			{ID: 1, JobTitle: "Engineer", Company: "Navy", Location: "Arlington", Start: day(2021, time.July, 1), Description: "COBOL"},
		},
		Education: []types.Education{
			{ID: 1, Institution: "Yale", Location: "New Haven", DegreeName: "PhD Mathematics", Start: day(1930, time.September, 1), End: &end, Description: "Thesis"},
		},
		Projects: []types.Project{
			{ID: 7, Name: "A-0", Role: "Author", Description: "First compiler", Start: day(1952, time.May, 1), Links: []types.ProjectLink{
				{URL: "https://example.com/a0", DisplayName: "Paper", Type: "DOCUMENT"},
				{URL: "https://example.com/a0/src", DisplayName: "Source", Type: "REPOSITORY"},
			}},
			{ID: 8, Name: "FLOW-MATIC", Role: "Lead", Start: day(1955, time.January, 1), End: &end},
		},
		Skills: []types.Skill{
			{ID: 2, Name: "COBOL", Type: "Languages", Level: 95},
			{ID: 1, Name: "Debugging", Type: "Practices", Level: 80},
		},
	}
}

// Run exercises store against the shared profile store contract.
func Run(t *testing.T, store ProfileStore) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		owner := uuid.New()
		require.NoError(t, store.SaveProfile(ctx, Profile(owner)))

		got, err := store.LoadProfile(ctx, owner)
		require.NoError(t, err)

		want := Profile(owner)
		assert.Equal(t, want.JobTitle, got.JobTitle)
		assert.Equal(t, want.Bio, got.Bio)
		assert.Equal(t, want.PictureKey, got.PictureKey)
		assert.Equal(t, want.Account, got.Account)

		require.Len(t, got.WorkExperiences, 2)
		assert.Equal(t, want.WorkExperiences[1], got.WorkExperiences[0], "newest start date first")
		assert.Equal(t, want.WorkExperiences[0], got.WorkExperiences[1])
		assert.Equal(t, want.Education, got.Education)

		require.Len(t, got.Projects, 2)
		assert.Equal(t, want.Projects[1], got.Projects[0])
		assert.Equal(t, want.Projects[0], got.Projects[1], "links keep their position")

		assert.Equal(t, []types.Skill{want.Skills[1], want.Skills[0]}, got.Skills, "skills ordered by id")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.LoadProfile(ctx, uuid.New())
		assert.True(t, errors.Is(err, types.ErrProfileNotFound), "got %v", err)
	})

	t.Run("without account details", func(t *testing.T) {
		owner := uuid.New()
		p := Profile(owner)
		p.Account = nil
		p.WorkExperiences, p.Education, p.Projects, p.Skills = nil, nil, nil, nil
		require.NoError(t, store.SaveProfile(ctx, p))

		got, err := store.LoadProfile(ctx, owner)
		require.NoError(t, err)
		assert.Nil(t, got.Account)
		assert.NotNil(t, got.WorkExperiences)
		assert.Empty(t, got.WorkExperiences)
		assert.Empty(t, got.Education)
		assert.Empty(t, got.Projects)
		assert.Empty(t, got.Skills)
	})

	t.Run("missing birthday stays zero", func(t *testing.T) {
		owner := uuid.New()
		p := Profile(owner)
		p.Account.Birthday = time.Time{}
		require.NoError(t, store.SaveProfile(ctx, p))

		got, err := store.LoadProfile(ctx, owner)
		require.NoError(t, err)
		require.NotNil(t, got.Account)
		assert.True(t, got.Account.Birthday.IsZero())
		assert.Error(t, got.Account.Validate())
	})

	t.Run("save replaces collections", func(t *testing.T) {
		owner := uuid.New()
		require.NoError(t, store.SaveProfile(ctx, Profile(owner)))

		p := Profile(owner)
		p.JobTitle = "Rear Admiral"
		p.WorkExperiences = p.WorkExperiences[:1]
		p.Projects = nil
		require.NoError(t, store.SaveProfile(ctx, p))

		got, err := store.LoadProfile(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "Rear Admiral", got.JobTitle)
		assert.Len(t, got.WorkExperiences, 1)
		assert.Empty(t, got.Projects)
		assert.Len(t, got.Skills, 2)
	})

	t.Run("owners are isolated", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		require.NoError(t, store.SaveProfile(ctx, Profile(a)))
		other := Profile(b)
		other.Skills = other.Skills[:1]
		require.NoError(t, store.SaveProfile(ctx, other))

		got, err := store.LoadProfile(ctx, a)
		require.NoError(t, err)
		assert.Len(t, got.Skills, 2)
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		p := Profile(uuid.Nil)
		assert.Error(t, store.SaveProfile(ctx, p))
	})
}
