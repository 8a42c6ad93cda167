package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedOwner(t *testing.T, repo *SQLiteRepository, username string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now()
	err := repo.CreateAccount(context.Background(),
		&domain.Account{ID: id, Email: username + "@example.com", PasswordHash: "x", CreatedAt: now},
		&domain.Profile{ID: id, Username: username, DisplayName: username, CreatedAt: now, UpdatedAt: now},
		&domain.PageSettings{
			ProfileID: id, ThemePreset: "default", PrimaryColor: "#000000", SecondaryColor: "#000000",
			BackgroundColor: "#ffffff", TextColor: "#000000", BackgroundType: "solid", FontFamily: "Inter",
			ButtonStyle: "rounded", ButtonColor: "#000000", ButtonTextColor: "#ffffff", LayoutStyle: "standard",
			ShowPoweredBy: true, UpdatedAt: now,
		})
	require.NoError(t, err)
	return id
}

func newMusic(owner uuid.UUID, title string) *domain.MusicLink {
	now := time.Now()
	return &domain.MusicLink{
		ID: uuid.New(), ProfileID: owner, Title: title, Type: "track",
		IsVisible: true, CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateAccountConflicts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedOwner(t, repo, "alpha")

	now := time.Now()
	id := uuid.New()
	err := repo.CreateAccount(ctx,
		&domain.Account{ID: id, Email: "other@example.com", CreatedAt: now},
		&domain.Profile{ID: id, Username: "alpha", DisplayName: "A", CreatedAt: now, UpdatedAt: now},
		&domain.PageSettings{ProfileID: id, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	id = uuid.New()
	err = repo.CreateAccount(ctx,
		&domain.Account{ID: id, Email: "alpha@example.com", CreatedAt: now},
		&domain.Profile{ID: id, Username: "beta", DisplayName: "B", CreatedAt: now, UpdatedAt: now},
		&domain.PageSettings{ProfileID: id, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	// The failed signups left nothing behind
	exists, err := repo.UsernameExists(ctx, "beta")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProfileRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "gamma")

	p, err := repo.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.GenreTags)

	p.Bio = "hello"
	p.GenreTags = []string{"indie", "folk"}
	p.UpdatedAt = time.Now()
	require.NoError(t, repo.UpdateProfile(ctx, p))
	require.NoError(t, repo.SetPublished(ctx, owner, true))

	got, err := repo.GetProfileByUsername(ctx, "gamma")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, []string{"indie", "folk"}, got.GenreTags)
	assert.True(t, got.IsPublished)

	_, err = repo.GetProfileByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSettingsCreatesMissingRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "delta")

	_, err := repo.db.ExecContext(ctx, `DELETE FROM page_settings WHERE profile_id = ?`, owner)
	require.NoError(t, err)
	_, err = repo.GetSettings(ctx, owner)
	require.ErrorIs(t, err, domain.ErrNotFound)

	st := &domain.PageSettings{
		ProfileID: owner, ThemePreset: "ocean", PrimaryColor: "#0077be", SecondaryColor: "#00a8e8",
		BackgroundColor: "#001f3f", TextColor: "#ffffff", BackgroundType: "solid", FontFamily: "Inter",
		ButtonStyle: "pill", ButtonColor: "#0077be", ButtonTextColor: "#ffffff", LayoutStyle: "standard",
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.UpdateSettings(ctx, st))

	got, err := repo.GetSettings(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "ocean", got.ThemePreset)
	assert.Equal(t, "pill", got.ButtonStyle)

	st.ProfileID = uuid.New()
	assert.ErrorIs(t, repo.UpdateSettings(ctx, st), domain.ErrNotFound)
}

func TestCreateAssignsNextSortOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "delta")
	other := seedOwner(t, repo, "epsilon")

	for i, title := range []string{"one", "two", "three"} {
		l := newMusic(owner, title)
		require.NoError(t, repo.CreateMusicLink(ctx, l))
		assert.Equal(t, i, l.SortOrder)
	}

	// Another owner's collection starts from zero
	l := newMusic(other, "solo")
	require.NoError(t, repo.CreateMusicLink(ctx, l))
	assert.Equal(t, 0, l.SortOrder)
}

func TestSortOrderContinuesAfterGaps(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "zeta")

	a := &domain.MerchLink{ID: uuid.New(), ProfileID: owner, Title: "a", URL: "https://a.example", IsVisible: true, CreatedAt: time.Now()}
	b := &domain.MerchLink{ID: uuid.New(), ProfileID: owner, Title: "b", URL: "https://b.example", IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateMerchLink(ctx, a))
	require.NoError(t, repo.CreateMerchLink(ctx, b))
	require.NoError(t, repo.DeleteLink(ctx, domain.KindMerch, owner, a.ID))

	c := &domain.MerchLink{ID: uuid.New(), ProfileID: owner, Title: "c", URL: "https://c.example", IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateMerchLink(ctx, c))
	assert.Equal(t, 2, c.SortOrder)
}

func TestReorderLinks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "eta")

	var ids []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		l := newMusic(owner, title)
		require.NoError(t, repo.CreateMusicLink(ctx, l))
		ids = append(ids, l.ID)
	}

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	require.NoError(t, repo.ReorderLinks(ctx, domain.KindMusic, owner, reversed))

	links, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	var got []uuid.UUID
	for i, l := range links {
		got = append(got, l.ID)
		assert.Equal(t, i, l.SortOrder)
	}
	if diff := cmp.Diff(reversed, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderRejectsPartialList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "kappa")

	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c"} {
		l := newMusic(owner, title)
		require.NoError(t, repo.CreateMusicLink(ctx, l))
		ids = append(ids, l.ID)
	}

	err := repo.ReorderLinks(ctx, domain.KindMusic, owner, []uuid.UUID{ids[2]})
	assert.True(t, domain.IsValidation(err))

	links, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, links, 3)
	for i, l := range links {
		assert.Equal(t, ids[i], l.ID)
		assert.Equal(t, i, l.SortOrder)
	}
}

func TestReorderRollsBackOnForeignID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "theta")
	other := seedOwner(t, repo, "iota")

	a, b := newMusic(owner, "a"), newMusic(owner, "b")
	foreign := newMusic(other, "x")
	for _, l := range []*domain.MusicLink{a, b, foreign} {
		require.NoError(t, repo.CreateMusicLink(ctx, l))
	}

	err := repo.ReorderLinks(ctx, domain.KindMusic, owner, []uuid.UUID{b.ID, foreign.ID, a.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	links, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, a.ID, links[0].ID)
	assert.Equal(t, 0, links[0].SortOrder)
	assert.Equal(t, b.ID, links[1].ID)
	assert.Equal(t, 1, links[1].SortOrder)
}

func TestForeignOwnerMutationsAlterNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "kappa")
	intruder := seedOwner(t, repo, "lambda")

	l := newMusic(owner, "mine")
	require.NoError(t, repo.CreateMusicLink(ctx, l))

	hijack := *l
	hijack.ProfileID = intruder
	hijack.Title = "stolen"
	assert.ErrorIs(t, repo.UpdateMusicLink(ctx, &hijack), domain.ErrNotFound)
	assert.ErrorIs(t, repo.SetLinkVisibility(ctx, domain.KindMusic, intruder, l.ID, false), domain.ErrNotFound)
	assert.NoError(t, repo.DeleteLink(ctx, domain.KindMusic, intruder, l.ID))

	links, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "mine", links[0].Title)
	assert.True(t, links[0].IsVisible)
}

func TestSocialPlatformUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "mu")

	first := &domain.SocialLink{ID: uuid.New(), ProfileID: owner, Platform: "instagram", URL: "https://instagram.com/a", IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateSocialLink(ctx, first))

	dup := &domain.SocialLink{ID: uuid.New(), ProfileID: owner, Platform: "instagram", URL: "https://instagram.com/b", IsVisible: true, CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.CreateSocialLink(ctx, dup), domain.ErrDuplicatePlatform)

	tiktok := &domain.SocialLink{ID: uuid.New(), ProfileID: owner, Platform: "tiktok", URL: "https://tiktok.com/@a", IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateSocialLink(ctx, tiktok))
	tiktok.Platform = "instagram"
	assert.ErrorIs(t, repo.UpdateSocialLink(ctx, tiktok), domain.ErrDuplicatePlatform)

	links, err := repo.ListSocialLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://instagram.com/a", links[0].URL)
	assert.Equal(t, "tiktok", links[1].Platform)
}

func TestVisibleOnlyFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "nu")

	shown, hidden := newMusic(owner, "shown"), newMusic(owner, "hidden")
	require.NoError(t, repo.CreateMusicLink(ctx, shown))
	require.NoError(t, repo.CreateMusicLink(ctx, hidden))
	require.NoError(t, repo.SetLinkVisibility(ctx, domain.KindMusic, owner, hidden.ID, false))

	all, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := repo.ListMusicLinks(ctx, owner, ports.ListFilter{VisibleOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, shown.ID, visible[0].ID)
}

func TestTourDatesOrderedByEventDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "xi")

	base := time.Date(2030, 5, 1, 20, 0, 0, 0, time.UTC)
	late := &domain.TourDate{ID: uuid.New(), ProfileID: owner, EventName: "late", Venue: "v", City: "c", EventDate: base.AddDate(0, 1, 0), IsVisible: true, CreatedAt: time.Now()}
	early := &domain.TourDate{ID: uuid.New(), ProfileID: owner, EventName: "early", Venue: "v", City: "c", EventDate: base, IsVisible: true, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateTourDate(ctx, late))
	require.NoError(t, repo.CreateTourDate(ctx, early))

	dates, err := repo.ListTourDates(ctx, owner, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "early", dates[0].EventName)
	assert.True(t, dates[0].EventDate.Equal(base))
	assert.Equal(t, 1, dates[0].SortOrder)
}

func TestSubscriberLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "omicron")

	sub := &domain.Subscriber{ID: uuid.New(), ProfileID: owner, Email: "fan@example.com", Source: domain.SourcePublicPage, SubscribedAt: time.Now()}
	require.NoError(t, repo.AddSubscriber(ctx, sub))

	again := &domain.Subscriber{ID: uuid.New(), ProfileID: owner, Email: "fan@example.com", Source: domain.SourcePublicPage, SubscribedAt: time.Now()}
	assert.ErrorIs(t, repo.AddSubscriber(ctx, again), domain.ErrAlreadySubscribed)

	require.NoError(t, repo.DeactivateSubscriber(ctx, owner, sub.ID))
	n, err := repo.CountSubscribers(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// Reactivation keeps the original row
	require.NoError(t, repo.AddSubscriber(ctx, again))
	subs, err := repo.ListSubscribers(ctx, owner, true)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)
	assert.True(t, subs[0].IsActive)
}

func TestAnalyticsSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedOwner(t, repo, "pi")
	now := time.Now()

	views := []domain.PageView{
		{ID: uuid.New(), ProfileID: owner, VisitorID: "v1", DeviceType: "mobile", Browser: "Chrome", ViewedAt: now},
		{ID: uuid.New(), ProfileID: owner, VisitorID: "v1", Referrer: "https://ig.example", DeviceType: "mobile", Browser: "Chrome", ViewedAt: now},
		{ID: uuid.New(), ProfileID: owner, VisitorID: "v2", DeviceType: "desktop", Browser: "Firefox", ViewedAt: now},
		{ID: uuid.New(), ProfileID: owner, VisitorID: "v3", DeviceType: "desktop", Browser: "Safari", ViewedAt: now.AddDate(0, 0, -60)},
	}
	for i := range views {
		require.NoError(t, repo.RecordPageView(ctx, &views[i]))
	}
	click := &domain.LinkClick{ID: uuid.New(), ProfileID: owner, LinkType: "music", URL: "https://open.spotify.com/x", DeviceType: "mobile", ClickedAt: now}
	require.NoError(t, repo.RecordLinkClick(ctx, click))

	s, err := repo.GetAnalyticsSummary(ctx, owner, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.TotalPageViews)
	assert.Equal(t, int64(3), s.PageViews30d)
	assert.Equal(t, int64(2), s.UniqueVisitors)
	assert.Equal(t, int64(1), s.LinkClicks30d)
	assert.Equal(t, map[string]int64{"Direct": 2, "https://ig.example": 1}, s.Referrers)
	assert.Equal(t, map[string]int64{"mobile": 2, "desktop": 1}, s.Devices)
	assert.Equal(t, map[string]int64{"music": 1}, s.ClicksByType)
	require.Len(t, s.DailyViews, 1)
	assert.Equal(t, now.UTC().Format("2006-01-02"), s.DailyViews[0].Date)
}
