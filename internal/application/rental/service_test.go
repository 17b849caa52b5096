package rental

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

type memRentalRepo struct {
	rentals []*rental.Rental
	nextID  uint
}

func (r *memRentalRepo) Create(ctx context.Context, rent *rental.Rental) error {
	r.nextID++
	if err := rent.SetID(r.nextID); err != nil {
		return err
	}
	r.rentals = append(r.rentals, rent)
	return nil
}

func (r *memRentalRepo) GetByID(ctx context.Context, rentID uint) (*rental.Rental, error) {
	for _, rent := range r.rentals {
		if rent.ID() == rentID {
			return rent, nil
		}
	}
	return nil, nil
}

func (r *memRentalRepo) ListByUserID(ctx context.Context, userID uint) ([]*rental.Rental, error) {
	var out []*rental.Rental
	for _, rent := range r.rentals {
		if rent.UserID() == userID {
			out = append(out, rent)
		}
	}
	return out, nil
}

func (r *memRentalRepo) FindActive(ctx context.Context, userID, volumeID uint, now time.Time) (*rental.Rental, error) {
	var best *rental.Rental
	for _, rent := range r.rentals {
		if rent.UserID() != userID || rent.VolumeID() != volumeID || !rent.IsValidAt(now) {
			continue
		}
		if best == nil || rent.EndTime().After(best.EndTime()) {
			best = rent
		}
	}
	return best, nil
}

type memVolumeRepo struct {
	volumes []*volume.Volume
}

func (r *memVolumeRepo) Create(ctx context.Context, v *volume.Volume) error { return nil }
func (r *memVolumeRepo) GetByID(ctx context.Context, volID uint) (*volume.Volume, error) {
	for _, v := range r.volumes {
		if v.ID() == volID {
			return v, nil
		}
	}
	return nil, nil
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
	return nil, nil
}
func (r *memVolumeRepo) Update(ctx context.Context, v *volume.Volume) error { return nil }
func (r *memVolumeRepo) Delete(ctx context.Context, volID uint) error       { return nil }

type memUserRepo struct {
	params user.ReconstructParams
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (r *memUserRepo) GetByID(ctx context.Context, usrID uint) (*user.User, error) {
	if usrID != r.params.ID {
		return nil, nil
	}
	return user.Reconstruct(r.params)
}
func (r *memUserRepo) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	return nil, nil
}
func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return nil, nil
}
func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (r *memUserRepo) Update(ctx context.Context, u *user.User) error {
	r.params.Coins = u.Coins()
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func rentableVolume(t *testing.T) *volume.Volume {
	t.Helper()
	v, err := volume.Reconstruct(volume.ReconstructParams{
		ID: 5, SID: "vol_rentme01", NovelID: 1, Title: "Volume One", Order: 1,
		Mode: content.ModePaid, Price: 100, RentPrice: 40,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	})
	require.NoError(t, err)
	return v
}

func newTestService(rentals *memRentalRepo, volumes *memVolumeRepo, users *memUserRepo) *Service {
	svc := NewService(rentals, volumes, users, passthroughTx{}, 168*time.Hour,
		logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func readerWithCoins(coins int64) user.ReconstructParams {
	return user.ReconstructParams{
		ID: 42, SID: "usr_reader01", Username: "casualreader",
		Email: "reader@example.com", PasswordHash: "x", Role: user.RoleReader,
		Coins: coins, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
}

func TestService_RentVolume_DebitsCoinsAndOpensWindow(t *testing.T) {
	rentals := &memRentalRepo{}
	users := &memUserRepo{params: readerWithCoins(100)}
	svc := newTestService(rentals, &memVolumeRepo{volumes: []*volume.Volume{rentableVolume(t)}}, users)

	dto, err := svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)

	assert.Equal(t, fixedNow, dto.StartTime)
	assert.Equal(t, fixedNow.Add(168*time.Hour), dto.EndTime)
	assert.Equal(t, int64(60), users.params.Coins)
	require.Len(t, rentals.rentals, 1)
}

func TestService_RentVolume_InsufficientCoins(t *testing.T) {
	rentals := &memRentalRepo{}
	users := &memUserRepo{params: readerWithCoins(39)}
	svc := newTestService(rentals, &memVolumeRepo{volumes: []*volume.Volume{rentableVolume(t)}}, users)

	_, err := svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.ErrorIs(t, err, user.ErrInsufficientCoins)
	assert.Empty(t, rentals.rentals)
	assert.Equal(t, int64(39), users.params.Coins)
}

func TestService_RentVolume_NotRentable(t *testing.T) {
	free, err := volume.Reconstruct(volume.ReconstructParams{
		ID: 6, SID: "vol_free0001", NovelID: 1, Title: "Volume Two", Order: 2,
		Mode: content.ModePublished, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	})
	require.NoError(t, err)

	svc := newTestService(&memRentalRepo{}, &memVolumeRepo{volumes: []*volume.Volume{free}},
		&memUserRepo{params: readerWithCoins(100)})

	_, err = svc.RentVolume(context.Background(), 42, "vol_free0001")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestService_RentVolume_RenewalKeepsLongestWindow(t *testing.T) {
	rentals := &memRentalRepo{}
	users := &memUserRepo{params: readerWithCoins(100)}
	volumes := &memVolumeRepo{volumes: []*volume.Volume{rentableVolume(t)}}
	svc := newTestService(rentals, volumes, users)

	_, err := svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)

	// Renew two days into the first window: a second row appears and the
	// active lookup follows the later end time.
	later := fixedNow.Add(48 * time.Hour)
	svc.SetClock(func() time.Time { return later })

	_, err = svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)
	require.Len(t, rentals.rentals, 2)

	active, err := svc.GetActiveRental(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)
	assert.Equal(t, later.Add(168*time.Hour), active.EndTime)
	assert.Equal(t, int64(20), users.params.Coins)
}

func TestService_GetActiveRental_ExpiredYieldsNotFound(t *testing.T) {
	rentals := &memRentalRepo{}
	users := &memUserRepo{params: readerWithCoins(100)}
	svc := newTestService(rentals, &memVolumeRepo{volumes: []*volume.Volume{rentableVolume(t)}}, users)

	_, err := svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return fixedNow.Add(169 * time.Hour) })

	_, err = svc.GetActiveRental(context.Background(), 42, "vol_rentme01")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestService_ListRentals_IncludesExpired(t *testing.T) {
	rentals := &memRentalRepo{}
	users := &memUserRepo{params: readerWithCoins(100)}
	svc := newTestService(rentals, &memVolumeRepo{volumes: []*volume.Volume{rentableVolume(t)}}, users)

	_, err := svc.RentVolume(context.Background(), 42, "vol_rentme01")
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return fixedNow.Add(200 * time.Hour) })

	list, err := svc.ListRentals(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "0s", list[0].TimeRemaining)
	assert.Equal(t, "vol_rentme01", list[0].VolumeSID)
}
