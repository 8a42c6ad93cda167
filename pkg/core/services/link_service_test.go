package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

func TestMusicLinkSortOrderAndReorder(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "band")

	var ids []uuid.UUID
	for i, title := range []string{"First", "Second", "Third"} {
		l, err := env.links.CreateMusicLink(ctx, owner, domain.MusicLinkInput{Title: title, Type: "track"})
		require.NoError(t, err)
		assert.Equal(t, i, l.SortOrder)
		assert.True(t, l.IsVisible)
		ids = append(ids, l.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	require.NoError(t, env.links.ReorderLinks(ctx, owner, domain.KindMusic, reversed))

	links, err := env.links.ListMusicLinks(ctx, owner)
	require.NoError(t, err)
	got := make([]uuid.UUID, len(links))
	for i, l := range links {
		got[i] = l.ID
		assert.Equal(t, i, l.SortOrder)
	}
	if diff := cmp.Diff(reversed, got); diff != "" {
		t.Errorf("reordered links (-want +got):\n%s", diff)
	}
	// publish + three creates + reorder
	assert.Equal(t, 5, env.reval.count())
}

func TestMusicLinkEmbedDerivation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "embedder")

	l, err := env.links.CreateMusicLink(ctx, owner, domain.MusicLinkInput{
		Title:         "Single",
		Type:          "track",
		SpotifyURL:    "https://open.spotify.com/track/abc",
		EmbedPlatform: domain.EmbedSpotify,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://open.spotify.com/embed/track/abc", l.EmbedURL)

	// Platform chosen without its URL yields no embed
	l, err = env.links.UpdateMusicLink(ctx, owner, l.ID, domain.MusicLinkInput{
		Title:         "Single",
		Type:          "track",
		EmbedPlatform: domain.EmbedAppleMusic,
	})
	require.NoError(t, err)
	assert.Empty(t, l.EmbedURL)
	assert.Equal(t, 0, l.SortOrder)
}

func TestMusicLinkValidation(t *testing.T) {
	env := newEnv(t)
	owner := env.signup(t, "validator")

	_, err := env.links.CreateMusicLink(context.Background(), owner, domain.MusicLinkInput{Type: "track"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "Title is required", err.Error())

	_, err = env.links.CreateMusicLink(context.Background(), owner, domain.MusicLinkInput{Title: "x", Type: "track", SpotifyURL: "not a url"})
	assert.Equal(t, "Invalid URL", err.Error())
}

func TestUnauthenticatedOwnerRejected(t *testing.T) {
	env := newEnv(t)
	_, err := env.links.CreateMerchLink(context.Background(), uuid.Nil, domain.MerchLinkInput{Title: "Tee", URL: "https://shop.example"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, env.links.DeleteLink(context.Background(), uuid.Nil, domain.KindMerch, uuid.New()), domain.ErrUnauthenticated)
}

func TestDuplicateSocialPlatform(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "social")

	first, err := env.links.CreateSocialLink(ctx, owner, domain.SocialLinkInput{Platform: "instagram", URL: "https://instagram.com/first"})
	require.NoError(t, err)

	_, err = env.links.CreateSocialLink(ctx, owner, domain.SocialLinkInput{Platform: "instagram", URL: "https://instagram.com/second"})
	assert.ErrorIs(t, err, domain.ErrDuplicatePlatform)

	links, err := env.links.ListSocialLinks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, first.ID, links[0].ID)
	assert.Equal(t, "https://instagram.com/first", links[0].URL)
}

func TestCrossOwnerMutations(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "owner")
	intruder := env.signup(t, "intruder")

	merch, err := env.links.CreateMerchLink(ctx, owner, domain.MerchLinkInput{Title: "Tee", URL: "https://shop.example/tee"})
	require.NoError(t, err)

	_, err = env.links.UpdateMerchLink(ctx, intruder, merch.ID, domain.MerchLinkInput{Title: "Mine now", URL: "https://evil.example"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.links.SetVisibility(ctx, intruder, domain.KindMerch, merch.ID, false), domain.ErrNotFound)
	assert.NoError(t, env.links.DeleteLink(ctx, intruder, domain.KindMerch, merch.ID))
	assert.ErrorIs(t, env.links.ReorderLinks(ctx, intruder, domain.KindMerch, []uuid.UUID{merch.ID}), domain.ErrNotFound)

	links, err := env.links.ListMerchLinks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Tee", links[0].Title)
	assert.True(t, links[0].IsVisible)
}

func TestReorderRejectsDuplicates(t *testing.T) {
	env := newEnv(t)
	owner := env.signup(t, "dupes")
	id := uuid.New()

	err := env.links.ReorderLinks(context.Background(), owner, domain.KindSocial, []uuid.UUID{id, id})
	assert.True(t, domain.IsValidation(err))

	err = env.links.ReorderLinks(context.Background(), owner, domain.LinkKind("video"), []uuid.UUID{id})
	assert.True(t, domain.IsValidation(err))
}

func TestTourDateParsing(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "touring")

	d, err := env.links.CreateTourDate(ctx, owner, domain.TourDateInput{
		EventName: "Spring Tour", Venue: "Hall", City: "Berlin", CountryCode: "de", EventDate: "2031-04-05T20:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "DE", d.CountryCode)
	assert.Equal(t, "2031-04-05 20:30", d.EventDate.Format("2006-01-02 15:04"))

	_, err = env.links.CreateTourDate(ctx, owner, domain.TourDateInput{
		EventName: "Bad", Venue: "Hall", City: "Berlin", EventDate: "next friday",
	})
	assert.Equal(t, "Invalid date", err.Error())
}

func TestUpdateCoverArt(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	owner := env.signup(t, "covers")
	other := env.signup(t, "thief")

	l, err := env.links.CreateMusicLink(ctx, owner, domain.MusicLinkInput{Title: "Album", Type: "album"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2000, 1000))))
	raw := buf.Bytes()

	_, err = env.links.UpdateCoverArt(ctx, other, l.ID, bytes.NewReader(raw))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	url, err := env.links.UpdateCoverArt(ctx, owner, l.ID, bytes.NewReader(raw))
	require.NoError(t, err)
	key := "cover-art/" + owner.String() + "/" + l.ID.String() + ".png"
	assert.Equal(t, "https://cdn.example/"+key, url)

	stored, err := png.Decode(bytes.NewReader(env.storage.files[key]))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1024, 512), stored.Bounds())

	links, err := env.links.ListMusicLinks(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, url, links[0].CoverArtURL)
}
