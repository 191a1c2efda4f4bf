package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/utils"
)

func TestPublicationService_CreateStartsAsDraft(t *testing.T) {
	e := newEnv(t, Options{}, 0)

	p, err := e.publications.Create(context.Background(), models.CreatePublicationInput{
		ProfileID: 3,
		Title:     "Annonce Go",
		Platform:  models.PlatformLinkedIn,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PublicationDraft, p.Status)
	assert.Nil(t, p.PublishDate)
}

func TestPublicationService_PublishRepeatable(t *testing.T) {
	e := newEnv(t, Options{}, 0)
	ctx := context.Background()

	p, err := e.publications.Create(ctx, models.CreatePublicationInput{Title: "Annonce"})
	require.NoError(t, err)

	out, err := e.publications.Publish(ctx, p.ID, models.PlatformIndeed)
	require.NoError(t, err)
	assert.Equal(t, models.PublicationPublished, out.Status)
	assert.Equal(t, models.PlatformIndeed, out.Platform)
	require.NotNil(t, out.PublishDate)
	first := *out.PublishDate

	e.clock.Advance(time.Hour)
	out, err = e.publications.Publish(ctx, p.ID, models.PlatformMonster)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformMonster, out.Platform)
	assert.True(t, out.PublishDate.After(first))
}

func TestPublicationService_PublishOneWay(t *testing.T) {
	e := newEnv(t, Options{OneWayPublish: true}, 0)
	ctx := context.Background()

	p, err := e.publications.Create(ctx, models.CreatePublicationInput{Title: "Annonce"})
	require.NoError(t, err)

	_, err = e.publications.Publish(ctx, p.ID, models.PlatformLinkedIn)
	require.NoError(t, err)
	_, err = e.publications.Publish(ctx, p.ID, models.PlatformLinkedIn)
	requireCode(t, err, utils.CodeConflict)
}

func TestPublicationService_PublishErrors(t *testing.T) {
	e := newEnv(t, Options{}, 0)
	ctx := context.Background()

	_, err := e.publications.Publish(ctx, 0, models.PlatformLinkedIn)
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = e.publications.Publish(ctx, 1, models.Platform("twitter"))
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = e.publications.Publish(ctx, 77, models.PlatformLinkedIn)
	requireCode(t, err, utils.CodeNotFound)
}

func TestPublicationService_ListFilter(t *testing.T) {
	e := newEnv(t, Options{}, 0)
	ctx := context.Background()

	a, err := e.publications.Create(ctx, models.CreatePublicationInput{ProfileID: 1, Title: "A"})
	require.NoError(t, err)
	_, err = e.publications.Create(ctx, models.CreatePublicationInput{ProfileID: 2, Title: "B"})
	require.NoError(t, err)
	_, err = e.publications.Publish(ctx, a.ID, models.PlatformCompany)
	require.NoError(t, err)

	all, err := e.publications.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = e.publications.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := e.publications.List(ctx, "Published")
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "A", published[0].Title)

	drafts, err := e.publications.List(ctx, "draft")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "B", drafts[0].Title)

	_, err = e.publications.List(ctx, "archived")
	requireCode(t, err, utils.CodeInvalidArgument)

	byProfile, err := e.publications.ListByProfile(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byProfile, 1)
	assert.Equal(t, "B", byProfile[0].Title)
}

func TestPublicationService_StrictReferences(t *testing.T) {
	e := newEnv(t, Options{StrictReferences: true}, 0)
	ctx := context.Background()

	_, err := e.publications.Create(ctx, models.CreatePublicationInput{Title: "A"})
	ae := requireCode(t, err, utils.CodeValidation)
	assert.Equal(t, "profileId", ae.Fields[0].Field)

	_, err = e.publications.Create(ctx, models.CreatePublicationInput{ProfileID: 5, Title: "A"})
	requireCode(t, err, utils.CodeValidation)

	prof, err := e.profiles.Create(ctx, models.CreateProfileInput{ProjectID: 1, Title: "Dev"})
	// strict mode also checks the profile's project
	requireCode(t, err, utils.CodeValidation)
	assert.Nil(t, prof)
}
