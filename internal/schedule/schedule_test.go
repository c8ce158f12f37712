package schedule

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store/fixtures"
	"github.com/agiseventos/agenda/internal/store/memory"
)

func users(userType string, ids ...int64) []domain.User {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.User{ID: id, Name: "u", UserType: userType, IsActive: true})
	}
	return out
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots(30)
	require.Len(t, slots, 20)
	assert.Equal(t, Slot{Time: "08:00", Hour: 8, Minute: 0}, slots[0])
	assert.Equal(t, Slot{Time: "17:30", Hour: 17, Minute: 30}, slots[19])

	assert.Len(t, TimeSlots(60), 10)
	assert.Len(t, TimeSlots(45), 13)
	assert.Len(t, TimeSlots(0), 20)
}

func TestTimeSlotsEndWithinWindow(t *testing.T) {
	for _, d := range []int{5, 25, 30, 45, 50, 90, 240} {
		slots := TimeSlots(d)
		require.NotEmpty(t, slots, "slot %d", d)
		last := slots[len(slots)-1]
		end := last.Hour*60 + last.Minute + d
		assert.LessOrEqual(t, end, dayEndHour*60, "slot %d termina às %d min", d, end)
		assert.Greater(t, end+d, dayEndHour*60, "slot %d deixou intervalo livre no fim", d)
	}
	assert.Len(t, TimeSlots(240), 2)
}

func TestGenerateMeetingsEndBySettingsEnd(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	fabricantes := users(domain.UserTypeFabricante, 1, 6, 7)
	revendedores := users(domain.UserTypeRevendedor, 2, 3, 4)

	for seed := int64(1); seed <= 20; seed++ {
		g := NewGenerator(rand.New(rand.NewSource(seed)), time.UTC)
		out := g.Generate(day, 45, fabricantes, revendedores)
		endOfDay := time.Date(2026, 3, 10, out.Settings.EndTime, 0, 0, 0, time.UTC)
		for _, m := range out.Meetings {
			end := m.ScheduledAt.Add(time.Duration(out.Settings.SlotDuration) * time.Minute)
			assert.False(t, end.After(endOfDay), "reunião %s termina %s", m.ID, end.Format("15:04"))
		}
	}
}

func TestGenerateSlotsPerFabricante(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	fabricantes := users(domain.UserTypeFabricante, 1, 6, 7)
	revendedores := users(domain.UserTypeRevendedor, 2, 3, 4)

	for seed := int64(1); seed <= 50; seed++ {
		g := NewGenerator(rand.New(rand.NewSource(seed)), time.UTC)
		out := g.Generate(day, 30, fabricantes, revendedores)

		assert.Equal(t, "2026-03-10", out.Date)
		assert.Equal(t, Settings{StartTime: 8, EndTime: 18, SlotDuration: 30}, out.Settings)

		perFab := map[int64]map[string]bool{}
		for _, m := range out.Meetings {
			if perFab[m.FabricanteID] == nil {
				perFab[m.FabricanteID] = map[string]bool{}
			}
			require.False(t, perFab[m.FabricanteID][m.TimeSlot], "slot repetido para fabricante %d", m.FabricanteID)
			perFab[m.FabricanteID][m.TimeSlot] = true

			assert.Contains(t, []int64{2, 3, 4}, m.RevendedorID)
			assert.True(t, domain.IsValidMeetingStatus(m.Status))
			assert.Regexp(t, `^Mesa \d+$`, m.Location)
			assert.Equal(t, 2026, m.ScheduledAt.Year())
		}
		require.Len(t, perFab, 3)
		for fab, slots := range perFab {
			assert.GreaterOrEqual(t, len(slots), 1, "fabricante %d", fab)
			assert.LessOrEqual(t, len(slots), 4, "fabricante %d", fab)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	fabricantes := users(domain.UserTypeFabricante, 1, 6)
	revendedores := users(domain.UserTypeRevendedor, 2, 3)

	a := NewGenerator(rand.New(rand.NewSource(42)), time.UTC).Generate(day, 30, fabricantes, revendedores)
	b := NewGenerator(rand.New(rand.NewSource(42)), time.UTC).Generate(day, 30, fabricantes, revendedores)
	assert.Equal(t, a, b)
}

func TestGenerateWithoutRevendedores(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)), time.UTC)
	out := g.Generate(time.Now(), 30, users(domain.UserTypeFabricante, 1), nil)
	assert.Empty(t, out.Meetings)
	assert.Len(t, out.Fabricantes, 1)
}

func TestVisible(t *testing.T) {
	day := Day{
		Fabricantes: users(domain.UserTypeFabricante, 1, 6, 7),
		Meetings: []Meeting{
			{ID: "a", FabricanteID: 1, RevendedorID: 2},
			{ID: "b", FabricanteID: 6, RevendedorID: 3},
			{ID: "c", FabricanteID: 7, RevendedorID: 2},
		},
	}

	admin := Visible(day, domain.User{ID: 5, UserType: domain.UserTypeAdmin})
	assert.Len(t, admin.Meetings, 3)
	assert.Len(t, admin.Fabricantes, 3)

	fab := Visible(day, domain.User{ID: 6, UserType: domain.UserTypeFabricante})
	require.Len(t, fab.Meetings, 1)
	assert.Equal(t, "b", fab.Meetings[0].ID)
	require.Len(t, fab.Fabricantes, 1)
	assert.Equal(t, int64(6), fab.Fabricantes[0].ID)

	rev := Visible(day, domain.User{ID: 2, UserType: domain.UserTypeRevendedor})
	require.Len(t, rev.Meetings, 2)
	ids := []int64{rev.Fabricantes[0].ID, rev.Fabricantes[1].ID}
	assert.Equal(t, []int64{1, 7}, ids)

	none := Visible(day, domain.User{ID: 4, UserType: domain.UserTypeRevendedor})
	assert.Empty(t, none.Meetings)
	assert.Empty(t, none.Fabricantes)
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	g := NewGenerator(rand.New(rand.NewSource(1)), loc)

	day, err := g.ParseDate("2026-03-10", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 10, day.Day())

	now := time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)
	today, err := g.ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, 10, today.Day())

	_, err = g.ParseDate("10/03/2026", now)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

type fixedSlots int

func (f fixedSlots) SlotDuration(context.Context) (int, error) { return int(f), nil }

func TestServiceDaily(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, fixtures.Seed(ctx, st, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))

	svc := NewService(st, fixedSlots(60), NewGenerator(rand.New(rand.NewSource(7)), time.UTC))

	admin, err := st.GetUser(ctx, 5)
	require.NoError(t, err)
	day, err := svc.Daily(ctx, admin, "2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-12", day.Date)
	assert.Len(t, day.TimeSlots, 10)
	assert.Len(t, day.Fabricantes, 3)
	assert.NotEmpty(t, day.Meetings)

	_, err = svc.Daily(ctx, admin, "amanhã")
	assert.Error(t, err)
}
