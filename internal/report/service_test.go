package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/record"
	"github.com/MrJamesThe3rd/tally/internal/report"
)

func TestService_Dashboard(t *testing.T) {
	type testCase struct {
		name      string
		userID    string
		setupMock func(m *report.MockSource)
		wantErr   error
		check     func(t *testing.T, got *report.Dashboard)
	}

	errDown := errors.New("store unavailable")

	tests := []testCase{
		{
			name:   "Success",
			userID: "u1",
			setupMock: func(m *report.MockSource) {
				m.EXPECT().List(gomock.Any(), "u1", record.KindExpense).Return(scenarioRecords(), nil)
				m.EXPECT().List(gomock.Any(), "u1", record.KindIncome).Return([]record.Record{
					income("i1", 100000, "Salary", date(2024, 1, 2)),
				}, nil)
			},
			check: func(t *testing.T, got *report.Dashboard) {
				assert.Equal(t, date(2024, 1, 2), got.Reference)
				assert.Equal(t, report.WindowTotals{Day: 2000, Week: 10000, Month: 10000}, got.Expense.Windows)
				assert.Equal(t, report.WindowTotals{Day: 100000, Week: 100000, Month: 100000}, got.Income.Windows)
				require.Len(t, got.Income.Categories, 1)
				assert.Equal(t, 100, got.Income.Categories[0].Percentage)
			},
		},
		{
			name:   "RetriesOnceThenSucceeds",
			userID: "u1",
			setupMock: func(m *report.MockSource) {
				gomock.InOrder(
					m.EXPECT().List(gomock.Any(), "u1", record.KindExpense).Return(nil, errDown),
					m.EXPECT().List(gomock.Any(), "u1", record.KindExpense).Return(scenarioRecords(), nil),
				)
				m.EXPECT().List(gomock.Any(), "u1", record.KindIncome).Return(nil, nil)
			},
			check: func(t *testing.T, got *report.Dashboard) {
				assert.Equal(t, int64(10000), got.Expense.Total)
				assert.Empty(t, got.Income.Categories)
			},
		},
		{
			name:   "FailsAfterSecondAttempt",
			userID: "u1",
			setupMock: func(m *report.MockSource) {
				m.EXPECT().List(gomock.Any(), "u1", record.KindExpense).Return(nil, errDown).Times(2)
				m.EXPECT().List(gomock.Any(), "u1", record.KindIncome).Return(nil, nil).AnyTimes()
			},
			wantErr: errDown,
		},
		{
			name:    "Unauthenticated",
			wantErr: record.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			source := report.NewMockSource(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(source)
			}

			svc := report.NewService(source, report.HashPalette{}, time.Second)
			got, err := svc.Dashboard(context.Background(), tt.userID, time.Date(2024, 1, 2, 14, 0, 0, 0, time.UTC))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Dashboard_AttemptTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := report.NewMockSource(ctrl)

	hang := func(ctx context.Context, _ string, _ record.Kind) ([]record.Record, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	source.EXPECT().List(gomock.Any(), "u1", record.KindExpense).DoAndReturn(hang).Times(2)
	source.EXPECT().List(gomock.Any(), "u1", record.KindIncome).Return(nil, nil).AnyTimes()

	svc := report.NewService(source, nil, 20*time.Millisecond)

	start := time.Now()
	_, err := svc.Dashboard(context.Background(), "u1", date(2024, 1, 2))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestService_Day(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := report.NewMockSource(ctrl)
	source.EXPECT().List(gomock.Any(), "u1", record.KindExpense).Return(scenarioRecords(), nil)
	source.EXPECT().List(gomock.Any(), "u1", record.KindIncome).Return([]record.Record{
		income("i1", 4200, "Freelancing", date(2024, 1, 1)),
	}, nil)

	svc := report.NewService(source, report.HashPalette{}, time.Second)

	got, err := svc.Day(context.Background(), "u1", date(2024, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, int64(8000), got.TotalExpense)
	assert.Equal(t, int64(4200), got.TotalIncome)
	require.Len(t, got.Items, 3)
	assert.True(t, got.Items[2].IsIncome)
}
