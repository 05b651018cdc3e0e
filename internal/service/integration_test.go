package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/repository"
)

// These tests exercise the transactional flows against a real MySQL
// instance. They are skipped unless TEST_DB_DSN is set (directly or via
// a .env file); the schema from schema.sql must already be applied.
// The DSN needs parseTime=true&loc=UTC so DATE columns scan into
// time.Time.

var (
	testDBOnce sync.Once
	testDB     *sql.DB
	testDBErr  error
)

func integrationDB(t *testing.T) *sql.DB {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dsn := os.Getenv("TEST_DB_DSN")
		if dsn == "" {
			testDBErr = fmt.Errorf("TEST_DB_DSN is not set")
			return
		}
		testDB, testDBErr = sql.Open("mysql", dsn)
		if testDBErr != nil {
			return
		}
		testDBErr = testDB.Ping()
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDB
}

type integrationEnv struct {
	db           *sql.DB
	venues       *repository.VenueRepo
	fields       *repository.FieldRepo
	sessions     *SessionService
	roster       *RosterService
	participants *repository.ParticipantRepo
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	db := integrationDB(t)
	sessionRepo := repository.NewSessionRepo(db)
	participantRepo := repository.NewParticipantRepo(db)
	fieldRepo := repository.NewFieldRepo(db)
	roster := NewRosterService(db, sessionRepo, participantRepo, nil)
	// Pin the clock well before any test slot so start-time gates stay open.
	roster.now = func() time.Time {
		return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return &integrationEnv{
		db:           db,
		venues:       repository.NewVenueRepo(db),
		fields:       fieldRepo,
		sessions:     NewSessionService(db, sessionRepo, participantRepo, NewFieldAllocator(fieldRepo)),
		roster:       roster,
		participants: participantRepo,
	}
}

func (e *integrationEnv) createUser(t *testing.T, ctx context.Context) uint64 {
	t.Helper()
	users := repository.NewUserRepo(e.db)
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	id, err := users.Create(ctx, email, "integration-pass", "PLAYER", 4)
	require.NoError(t, err)
	return id
}

func (e *integrationEnv) createVenue(t *testing.T, ctx context.Context, fieldNames ...string) (uint64, []uint64) {
	t.Helper()
	v := &model.Venue{
		Name:    fmt.Sprintf("it-venue-%d", time.Now().UnixNano()),
		Address: "1 Integration Way",
		Status:  "active",
	}
	require.NoError(t, e.venues.Create(ctx, v))
	fieldIDs := make([]uint64, 0, len(fieldNames))
	for _, name := range fieldNames {
		f := &model.Field{VenueID: v.ID, SportType: "Football", Name: name}
		require.NoError(t, e.fields.Create(ctx, f))
		fieldIDs = append(fieldIDs, f.ID)
	}
	return v.ID, fieldIDs
}

func footballInput(venueID uint64, date time.Time, start, end string, totalCost float64, maxParticipants uint32) CreateSessionInput {
	sport := "Football"
	return CreateSessionInput{
		Title:           "five-a-side",
		LocationAddress: "1 Integration Way",
		Date:            date,
		StartTime:       start,
		EndTime:         &end,
		TotalCost:       totalCost,
		MaxParticipants: maxParticipants,
		SportType:       &sport,
		VenueID:         &venueID,
	}
}

func TestAllocationExhaustsFields(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	venueID, fieldIDs := env.createVenue(t, ctx, "Field A", "Field B")
	date := day("2030-06-01")

	first, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "10:00", "12:00", 100, 10))
	require.NoError(t, err)
	require.NotNil(t, first.FieldID)
	assert.Equal(t, fieldIDs[0], *first.FieldID, "first booking takes the alphabetically first field")

	second, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "11:00", "13:00", 100, 10))
	require.NoError(t, err)
	require.NotNil(t, second.FieldID)
	assert.Equal(t, fieldIDs[1], *second.FieldID)

	_, err = env.sessions.Create(ctx, creator, footballInput(venueID, date, "11:30", "12:30", 100, 10))
	assert.ErrorIs(t, err, ErrNoFieldAvailable)

	// A back-to-back slot on the first field is legal.
	third, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "12:00", "13:00", 100, 10))
	require.NoError(t, err)
	require.NotNil(t, third.FieldID)
	assert.Equal(t, fieldIDs[0], *third.FieldID)
}

func TestCostSplitLifecycle(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	joiner := env.createUser(t, ctx)
	latecomer := env.createUser(t, ctx)
	venueID, _ := env.createVenue(t, ctx, "Court 1")
	date := day("2030-06-02")

	sess, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "18:00", "19:00", 100, 2))
	require.NoError(t, err)

	members, err := env.participants.ListBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 100.0, members[0].CostPerPerson, "sole creator carries the full cost")

	joined, err := env.roster.Join(ctx, sess.ID, joiner)
	require.NoError(t, err)
	assert.Equal(t, model.SessionFull, joined.Status)

	members, err = env.participants.ListBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, 50.0, m.CostPerPerson)
	}

	_, err = env.roster.Join(ctx, sess.ID, latecomer)
	assert.ErrorIs(t, err, ErrSessionFull)

	require.NoError(t, env.roster.Leave(ctx, sess.ID, joiner))

	members, err = env.participants.ListBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 100.0, members[0].CostPerPerson, "share is restored after the leave")

	reread, err := repository.NewSessionRepo(env.db).GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, reread.Status, "full flips back to open")
}

func TestCreatorCannotLeaveAlone(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	venueID, _ := env.createVenue(t, ctx, "Court 1")

	sess, err := env.sessions.Create(ctx, creator, footballInput(venueID, day("2030-06-03"), "09:00", "10:00", 40, 4))
	require.NoError(t, err)

	err = env.roster.Leave(ctx, sess.ID, creator)
	assert.ErrorIs(t, err, ErrCreatorCannotLeaveAlone)

	require.NoError(t, env.sessions.Cancel(ctx, sess.ID, creator))
}

func TestCreatorHandoffOnLeave(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	joiner := env.createUser(t, ctx)
	venueID, _ := env.createVenue(t, ctx, "Court 1")

	sess, err := env.sessions.Create(ctx, creator, footballInput(venueID, day("2030-06-04"), "09:00", "10:00", 40, 4))
	require.NoError(t, err)
	_, err = env.roster.Join(ctx, sess.ID, joiner)
	require.NoError(t, err)

	require.NoError(t, env.roster.Leave(ctx, sess.ID, creator))

	reread, err := repository.NewSessionRepo(env.db).GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, joiner, reread.CreatorID, "ownership transfers to the remaining member")

	members, err := env.participants.ListBySession(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, joiner, members[0].UserID)
	assert.Equal(t, 40.0, members[0].CostPerPerson)
}

func TestUpdateRejectsFieldConflict(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	venueID, _ := env.createVenue(t, ctx, "Only Field")
	date := day("2030-06-05")

	_, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "10:00", "12:00", 100, 10))
	require.NoError(t, err)
	later, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "14:00", "16:00", 100, 10))
	require.NoError(t, err)

	// Moving the later session on top of the earlier one must fail and
	// leave the row untouched.
	newStart, newEnd := "11:00", "13:00"
	_, err = env.sessions.Update(ctx, later.ID, creator, UpdateSessionInput{StartTime: &newStart, EndTime: &newEnd})
	assert.ErrorIs(t, err, ErrFieldNotAvailable)

	reread, err := repository.NewSessionRepo(env.db).GetByID(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, "14:00:00", reread.StartTime)

	// Back-to-back with the earlier session is fine.
	newStart, newEnd = "12:00", "14:00"
	moved, err := env.sessions.Update(ctx, later.ID, creator, UpdateSessionInput{StartTime: &newStart, EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "12:00:00", moved.StartTime)
}

func TestConcurrentCreatesSerializeOnFields(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()
	creator := env.createUser(t, ctx)
	venueID, _ := env.createVenue(t, ctx, "Single Field")
	date := day("2030-06-06")

	const attempts = 4
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sessions.Create(ctx, creator, footballInput(venueID, date, "10:00", "12:00", 100, 10))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, unavailable int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrNoFieldAvailable)
			unavailable++
		}
	}
	assert.Equal(t, 1, ok, "exactly one concurrent create wins the field")
	assert.Equal(t, attempts-1, unavailable)
}
