package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/infrastructure/persistence/models"
	"github.com/inkwell-press/inkwell/internal/shared/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&models.UserModel{}, &models.NovelModel{}, &models.VolumeModel{},
		&models.ChapterModel{}, &models.RentalModel{}, &models.TopUpModel{},
	)
	require.NoError(t, err)
	return conn
}

func createTestNovel(t *testing.T, repo *NovelRepository, slug string) *novel.Novel {
	t.Helper()
	nov, err := novel.NewNovel("Ashes of the Vanguard", slug, 7)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), nov))
	return nov
}

func TestNovelRepository_RosterRoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNovelRepository(conn)
	ctx := context.Background()

	nov := createTestNovel(t, repo, "ashes-of-the-vanguard")
	nov.SetRoster(novel.Roster{novel.ByUserID(42), novel.ByUsername("translator_kim")})
	require.NoError(t, repo.Update(ctx, nov))

	found, err := repo.GetBySlug(ctx, "ashes-of-the-vanguard")
	require.NoError(t, err)
	require.NotNil(t, found)

	// Both identifier forms survive the JSON column.
	assert.True(t, found.HasStaff(42, ""))
	assert.True(t, found.HasStaff(0, "translator_kim"))
	assert.False(t, found.HasStaff(43, "someone_else"))
}

func TestNovelRepository_BalancePersists(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewNovelRepository(conn)
	ctx := context.Background()

	nov := createTestNovel(t, repo, "ashes-of-the-vanguard")
	require.NoError(t, nov.Contribute(120))
	require.NoError(t, repo.Update(ctx, nov))

	found, err := repo.GetBySID(ctx, nov.SID())
	require.NoError(t, err)
	assert.Equal(t, int64(120), found.Balance())

	missing, err := repo.GetBySID(ctx, "nov_missing000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func seedChapter(t *testing.T, repo *ChapterRepository, novelID, volumeID uint, order int, mode content.Mode, price int64, body string) *chapter.Chapter {
	t.Helper()
	ch, err := chapter.NewChapter(novelID, volumeID, fmt.Sprintf("Chapter %d", order), order)
	require.NoError(t, err)
	ch.SetBody(body)
	require.NoError(t, repo.Create(context.Background(), ch))

	if mode != content.ModeDraft {
		require.NoError(t, ch.ChangeMode(mode, price, content.ModePublished))
		require.NoError(t, repo.Update(context.Background(), ch))
	}
	return ch
}

func TestChapterRepository_BodyStaysBehindGetBody(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewChapterRepository(conn)
	ctx := context.Background()

	ch := seedChapter(t, repo, 1, 1, 1, content.ModePublished, 0, "<p>full text</p>")

	loaded, err := repo.GetBySID(ctx, ch.SID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Body())

	body, err := repo.GetBody(ctx, loaded.ID())
	require.NoError(t, err)
	assert.Equal(t, "<p>full text</p>", body)
}

func TestChapterRepository_MetadataUpdateKeepsBody(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewChapterRepository(conn)
	ctx := context.Background()

	ch := seedChapter(t, repo, 1, 1, 1, content.ModeDraft, 0, "<p>keep me</p>")

	// Reload without body, rename, write back.
	loaded, err := repo.GetBySID(ctx, ch.SID())
	require.NoError(t, err)
	require.NoError(t, loaded.SetTitle("Renamed"))
	require.NoError(t, repo.Update(ctx, loaded))

	body, err := repo.GetBody(ctx, ch.ID())
	require.NoError(t, err)
	assert.Equal(t, "<p>keep me</p>", body)
}

func TestChapterRepository_ListPaidByNovelOrdered(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewChapterRepository(conn)
	ctx := context.Background()

	seedChapter(t, repo, 1, 1, 3, content.ModePaid, 15, "")
	seedChapter(t, repo, 1, 1, 1, content.ModePaid, 10, "")
	seedChapter(t, repo, 1, 1, 2, content.ModePublished, 0, "")
	seedChapter(t, repo, 2, 2, 1, content.ModePaid, 99, "")

	paid, err := repo.ListPaidByNovelOrdered(ctx, 1)
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.Equal(t, 1, paid[0].Order())
	assert.Equal(t, 3, paid[1].Order())
}

func TestChapterRepository_UpdateModeFlipsSingleRow(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewChapterRepository(conn)
	ctx := context.Background()

	first := seedChapter(t, repo, 1, 1, 1, content.ModePaid, 10, "")
	second := seedChapter(t, repo, 1, 1, 2, content.ModePaid, 20, "")

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateMode(ctx, first.ID(), content.ModePublished, 0, now))

	reloaded, err := repo.GetBySID(ctx, first.SID())
	require.NoError(t, err)
	assert.Equal(t, content.ModePublished, reloaded.Mode())
	assert.Zero(t, reloaded.Price())

	untouched, err := repo.GetBySID(ctx, second.SID())
	require.NoError(t, err)
	assert.Equal(t, content.ModePaid, untouched.Mode())

	err = repo.UpdateMode(ctx, 9999, content.ModePublished, 0, now)
	assert.Error(t, err)
}

func TestRentalRepository_FindActivePicksGreatestEndTime(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRentalRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	mk := func(start, end time.Time) {
		rent, err := rental.NewRental(42, 5, start, end)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rent))
	}

	mk(now.Add(-10*24*time.Hour), now.Add(-3*24*time.Hour)) // expired
	mk(now.Add(-2*time.Hour), now.Add(24*time.Hour))
	mk(now.Add(-1*time.Hour), now.Add(72*time.Hour)) // renewal, longest

	active, err := repo.FindActive(ctx, 42, 5, now)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.WithinDuration(t, now.Add(72*time.Hour), active.EndTime(), time.Second)

	// Other users and other volumes see nothing.
	none, err := repo.FindActive(ctx, 43, 5, now)
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = repo.FindActive(ctx, 42, 6, now)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRentalRepository_FindActiveAtBoundary(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewRentalRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rent, err := rental.NewRental(42, 5, now.Add(-time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, rent))

	// end_time == now is still valid; one second later it is not.
	active, err := repo.FindActive(ctx, 42, 5, now)
	require.NoError(t, err)
	assert.NotNil(t, active)

	expired, err := repo.FindActive(ctx, 42, 5, now.Add(time.Second))
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestTransactionManager_RollsBackBatch(t *testing.T) {
	conn := setupTestDB(t)
	users := NewUserRepository(conn)
	tm := db.NewTransactionManager(conn)
	ctx := context.Background()

	usr, err := user.NewUser("casualreader", "reader@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, usr))
	require.NoError(t, usr.Credit(100))
	require.NoError(t, users.Update(ctx, usr))

	err = tm.RunInTransaction(ctx, func(ctx context.Context) error {
		loaded, err := users.GetByID(ctx, usr.ID())
		if err != nil {
			return err
		}
		if err := loaded.Debit(60); err != nil {
			return err
		}
		if err := users.Update(ctx, loaded); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	reloaded, err := users.GetByID(ctx, usr.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(100), reloaded.Coins())
}

func TestUserRepository_UniqueLookups(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	usr, err := user.NewUser("casualreader", "reader@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, usr))

	byName, err := repo.GetByUsername(ctx, "casualreader")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, usr.SID(), byName.SID())

	byEmail, err := repo.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dupe, err := user.NewUser("casualreader", "other@example.com", "hash")
	require.NoError(t, err)
	assert.Error(t, repo.Create(ctx, dupe))
}
