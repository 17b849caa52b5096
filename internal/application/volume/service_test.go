package volume

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

type memVolumeRepo struct {
	volumes map[uint]*volume.Volume
	nextID  uint
}

func newMemVolumeRepo() *memVolumeRepo {
	return &memVolumeRepo{volumes: map[uint]*volume.Volume{}}
}

func (r *memVolumeRepo) Create(ctx context.Context, v *volume.Volume) error {
	r.nextID++
	if err := v.SetID(r.nextID); err != nil {
		return err
	}
	r.volumes[v.ID()] = v
	return nil
}

func (r *memVolumeRepo) GetByID(ctx context.Context, volID uint) (*volume.Volume, error) {
	return r.volumes[volID], nil
}

func (r *memVolumeRepo) GetBySID(ctx context.Context, sid string) (*volume.Volume, error) {
	for _, v := range r.volumes {
		if v.SID() == sid {
			return v, nil
		}
	}
	return nil, nil
}

func (r *memVolumeRepo) ListByNovelID(ctx context.Context, novelID uint) ([]*volume.Volume, error) {
	var out []*volume.Volume
	for _, v := range r.volumes {
		if v.NovelID() == novelID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out, nil
}

func (r *memVolumeRepo) Update(ctx context.Context, v *volume.Volume) error {
	r.volumes[v.ID()] = v
	return nil
}

func (r *memVolumeRepo) Delete(ctx context.Context, volID uint) error {
	delete(r.volumes, volID)
	return nil
}

type stubNovelRepo struct {
	novel *novel.Novel
}

func (r *stubNovelRepo) Create(ctx context.Context, n *novel.Novel) error { return nil }
func (r *stubNovelRepo) GetByID(ctx context.Context, novID uint) (*novel.Novel, error) {
	return nil, nil
}
func (r *stubNovelRepo) GetBySID(ctx context.Context, sid string) (*novel.Novel, error) {
	if r.novel != nil && r.novel.SID() == sid {
		return r.novel, nil
	}
	return nil, nil
}
func (r *stubNovelRepo) GetBySlug(ctx context.Context, slug string) (*novel.Novel, error) {
	return nil, nil
}
func (r *stubNovelRepo) List(ctx context.Context, page, pageSize int) ([]*novel.Novel, int64, error) {
	return nil, 0, nil
}
func (r *stubNovelRepo) Update(ctx context.Context, n *novel.Novel) error { return nil }
func (r *stubNovelRepo) Delete(ctx context.Context, novID uint) error     { return nil }

func newTestService(t *testing.T) (*Service, *memVolumeRepo) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	nov, err := novel.Reconstruct(novel.ReconstructParams{
		ID: 1, SID: "nov_author01", Title: "Ashes of the Vanguard",
		Slug: "ashes-of-the-vanguard", CreatorID: 7, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	repo := newMemVolumeRepo()
	svc := NewService(repo, &stubNovelRepo{novel: nov},
		logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return svc, repo
}

func TestService_CreateVolume_StartsAsDraft(t *testing.T) {
	svc, _ := newTestService(t)

	dto, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
		Title: "Volume One", Order: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "draft", dto.Mode.String())
	assert.False(t, dto.Rentable)
}

func TestService_ChangeMode_PaidWithRentPriceBecomesRentable(t *testing.T) {
	svc, _ := newTestService(t)
	dto, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
		Title: "Volume One", Order: 1,
	})
	require.NoError(t, err)

	updated, err := svc.ChangeMode(context.Background(), dto.SID, ChangeModeInput{
		Mode: "paid", Price: 100, RentPrice: 40,
	})
	require.NoError(t, err)

	assert.True(t, updated.Rentable)
	assert.Equal(t, int64(40), updated.RentPrice)
}

func TestService_ChangeMode_PaidWithoutOwnershipPrice(t *testing.T) {
	svc, _ := newTestService(t)
	dto, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
		Title: "Volume One", Order: 1,
	})
	require.NoError(t, err)

	_, err = svc.ChangeMode(context.Background(), dto.SID, ChangeModeInput{
		Mode: "paid", RentPrice: 40,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestService_ChangeMode_LeavingPaidDropsRentability(t *testing.T) {
	svc, _ := newTestService(t)
	dto, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
		Title: "Volume One", Order: 1,
	})
	require.NoError(t, err)

	_, err = svc.ChangeMode(context.Background(), dto.SID, ChangeModeInput{
		Mode: "paid", Price: 100, RentPrice: 40,
	})
	require.NoError(t, err)

	updated, err := svc.ChangeMode(context.Background(), dto.SID, ChangeModeInput{Mode: "published"})
	require.NoError(t, err)

	assert.False(t, updated.Rentable)
	assert.Zero(t, updated.Price)
	assert.Zero(t, updated.RentPrice)
}

func TestService_SetPricing_RequiresPaidMode(t *testing.T) {
	svc, _ := newTestService(t)
	dto, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
		Title: "Volume One", Order: 1,
	})
	require.NoError(t, err)

	_, err = svc.SetPricing(context.Background(), dto.SID, 100, 40)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestService_ListByNovel_ReadingOrder(t *testing.T) {
	svc, _ := newTestService(t)
	for i, title := range []string{"Two", "One"} {
		_, err := svc.CreateVolume(context.Background(), "nov_author01", CreateVolumeInput{
			Title: title, Order: []int{2, 1}[i],
		})
		require.NoError(t, err)
	}

	list, err := svc.ListByNovel(context.Background(), "nov_author01")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].Title)
	assert.Equal(t, "Two", list[1].Title)
}
