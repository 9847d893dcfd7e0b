package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"etqan-payroll/internal/employee"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls             int32
	ActiveEmployeesFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeSource) ActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.ActiveEmployeesFn(ctx)
}

var roster = []employee.Employee{
	{ID: "E-1", Name: "Amina", TeacherID: "T-1", Active: true},
	{ID: "E-2", Name: "Omar", Active: true},
}

func TestDirectory_ActiveEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run("without redis every call reaches the source", func(t *testing.T) {
		src := &fakeSource{ActiveEmployeesFn: func(ctx context.Context) ([]employee.Employee, error) { return roster, nil }}
		d := employee.NewDirectory(src, nil, time.Minute)

		for i := 0; i < 2; i++ {
			emps, err := d.ActiveEmployees(ctx)
			require.NoError(t, err)
			assert.Equal(t, roster, emps)
		}
		assert.Equal(t, int32(2), src.calls)
		assert.NoError(t, d.Forget(ctx))
	})

	t.Run("cache hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		src := &fakeSource{}
		d := employee.NewDirectory(src, rdb, time.Minute)

		payload, _ := json.Marshal(roster)
		mock.ExpectGet(employee.ActiveEmployeesKey).SetVal(string(payload))

		emps, err := d.ActiveEmployees(ctx)

		require.NoError(t, err)
		assert.Equal(t, roster, emps)
		assert.Zero(t, src.calls)
	})

	t.Run("cache miss stores the roster", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		src := &fakeSource{ActiveEmployeesFn: func(ctx context.Context) ([]employee.Employee, error) { return roster, nil }}
		d := employee.NewDirectory(src, rdb, time.Minute)

		payload, _ := json.Marshal(roster)
		mock.ExpectGet(employee.ActiveEmployeesKey).RedisNil()
		mock.ExpectSet(employee.ActiveEmployeesKey, payload, time.Minute).SetVal("OK")

		_, err := d.ActiveEmployees(ctx)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("source failure is returned", func(t *testing.T) {
		src := &fakeSource{ActiveEmployeesFn: func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("503")
		}}
		d := employee.NewDirectory(src, nil, 0)

		_, err := d.ActiveEmployees(ctx)

		assert.EqualError(t, err, "503")
	})

	t.Run("forget drops the cached roster", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		d := employee.NewDirectory(&fakeSource{}, rdb, time.Minute)

		mock.ExpectDel(employee.ActiveEmployeesKey).SetVal(1)

		assert.NoError(t, d.Forget(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployee_HasTeacher(t *testing.T) {
	assert.True(t, roster[0].HasTeacher())
	assert.False(t, roster[1].HasTeacher())
}
