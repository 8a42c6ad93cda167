package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/core/services"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

func TestExportImportBundle(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewSQLiteRepository("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	defer repo.Close()

	accounts := services.NewAccountService(repo, repo, nil)
	links := services.NewLinkService(repo, nil, nil, nil)
	signup := func(username string) uuid.UUID {
		acct, err := accounts.Signup(ctx, domain.SignupInput{
			Email: username + "@example.com", Password: "correct-horse",
			Username: username, DisplayName: username,
		})
		require.NoError(t, err)
		return acct.ID
	}
	src, dst := signup("source"), signup("target")

	first, err := links.CreateMusicLink(ctx, src, domain.MusicLinkInput{Title: "First", Type: "album"})
	require.NoError(t, err)
	_, err = links.CreateMusicLink(ctx, src, domain.MusicLinkInput{Title: "Second", Type: "ep"})
	require.NoError(t, err)
	require.NoError(t, links.SetVisibility(ctx, src, domain.KindMusic, first.ID, false))
	_, err = links.CreateSocialLink(ctx, src, domain.SocialLinkInput{Platform: "tiktok", URL: "https://tiktok.com/@source"})
	require.NoError(t, err)
	_, err = links.CreateTourDate(ctx, src, domain.TourDateInput{EventName: "Show", Venue: "Hall", City: "Oslo", EventDate: "2099-01-02"})
	require.NoError(t, err)
	_, err = links.CreateSocialLink(ctx, dst, domain.SocialLinkInput{Platform: "tiktok", URL: "https://tiktok.com/@target"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exportBundle(ctx, repo, "Source", &buf))

	n, err := importBundle(ctx, repo, "target", &buf, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	music, err := repo.ListMusicLinks(ctx, dst, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, music, 2)
	assert.Equal(t, "First", music[0].Title)
	assert.False(t, music[0].IsVisible)
	assert.Equal(t, 1, music[1].SortOrder)
	assert.NotEqual(t, first.ID, music[0].ID)

	social, err := repo.ListSocialLinks(ctx, dst, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, social, 1)
	assert.Equal(t, "https://tiktok.com/@target", social[0].URL)

	tour, err := repo.ListTourDates(ctx, dst, ports.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, tour, 1)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	_, err := importBundle(context.Background(), nil, "anyone", bytes.NewBufferString(`{"version": 7}`), zap.NewNop())
	assert.ErrorContains(t, err, "unsupported bundle version 7")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "libsql://db.turso.io", redact("libsql://db.turso.io?authToken=secret"))
	assert.Equal(t, "file:db.sqlite", redact("file:db.sqlite"))
}

func TestWriteSubscribersNormalizesUsername(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewSQLiteRepository("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	defer repo.Close()

	acct, err := services.NewAccountService(repo, repo, nil).Signup(ctx, domain.SignupInput{
		Email: "nova@example.com", Password: "correct-horse",
		Username: "nova", DisplayName: "Nova",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AddSubscriber(ctx, &domain.Subscriber{
		ID: uuid.New(), ProfileID: acct.ID, Email: "fan@example.com",
		Source: domain.SourcePublicPage, SubscribedAt: time.Now(),
	}))

	var buf bytes.Buffer
	require.NoError(t, writeSubscribers(ctx, repo, zap.NewNop(), "  Nova ", &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "email,name,subscribed_at,source\nfan@example.com,"))
}
