package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"pensionfund/internal/domain/entity"
	domainerrors "pensionfund/internal/domain/errors"
	"pensionfund/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemberFixture(t *testing.T) (usecase.MemberUsecase, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	memberUsecase := NewMemberService(
		&fakeTxManager{store: store},
		&fakeMemberRepo{store},
		newDiscardLogger(),
	)

	return memberUsecase, store
}

func enrollInput() usecase.EnrollMemberInput {
	return usecase.EnrollMemberInput{
		FullName:     "Avery Tan",
		DateOfBirth:  time.Date(1980, time.March, 15, 0, 0, 0, 0, time.UTC),
		Employer:     "Acme Logistics",
		AnnualSalary: 72000,
	}
}

func TestMemberService_Enroll(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	member, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusActive, member.Status)
	assert.False(t, member.EnrolledAt.IsZero())
	assert.True(t, strings.HasPrefix(member.MemberNumber, "PF-"), "got %q", member.MemberNumber)

	// Generated numbers are unique across enrollments.
	other, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)
	assert.NotEqual(t, member.MemberNumber, other.MemberNumber)
}

func TestMemberService_EnrollValidation(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*usecase.EnrollMemberInput)
	}{
		{
			name:   "missing name",
			mutate: func(input *usecase.EnrollMemberInput) { input.FullName = "" },
		},
		{
			name:   "negative salary",
			mutate: func(input *usecase.EnrollMemberInput) { input.AnnualSalary = -1 },
		},
		{
			name:   "zero date of birth",
			mutate: func(input *usecase.EnrollMemberInput) { input.DateOfBirth = time.Time{} },
		},
		{
			name: "future date of birth",
			mutate: func(input *usecase.EnrollMemberInput) {
				input.DateOfBirth = time.Now().Add(24 * time.Hour)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := enrollInput()
			tt.mutate(&input)

			_, err := memberUsecase.Enroll(ctx, input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestMemberService_GetAndGetByNumber(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	member, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)

	found, err := memberUsecase.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)

	found, err = memberUsecase.GetByNumber(ctx, member.MemberNumber)
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)

	_, err = memberUsecase.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)

	_, err = memberUsecase.GetByNumber(ctx, "PF-1999-000000")
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
}

func TestMemberService_List(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	for range 3 {
		_, err := memberUsecase.Enroll(ctx, enrollInput())
		require.NoError(t, err)
	}
	suspended, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)
	_, err = memberUsecase.ChangeStatus(ctx, suspended.ID, entity.MemberStatusSuspended)
	require.NoError(t, err)

	output, err := memberUsecase.List(ctx, usecase.ListMembersInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, output.Total)

	output, err = memberUsecase.List(ctx, usecase.ListMembersInput{Status: entity.MemberStatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Total)

	// Pagination clamps to sane bounds.
	output, err = memberUsecase.List(ctx, usecase.ListMembersInput{Page: -3, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 2, output.PerPage)
	assert.Len(t, output.Members, 2)
	assert.Equal(t, 4, output.Total)

	_, err = memberUsecase.List(ctx, usecase.ListMembersInput{Status: entity.MemberStatus("frozen")})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestMemberService_Update(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	member, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)

	newName := "Avery Tan-Lim"
	newSalary := 81000.0
	updated, err := memberUsecase.Update(ctx, member.ID, usecase.UpdateMemberInput{
		FullName:     &newName,
		AnnualSalary: &newSalary,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)
	assert.Equal(t, newSalary, updated.AnnualSalary)
	// Untouched fields keep their values.
	assert.Equal(t, "Acme Logistics", updated.Employer)

	empty := ""
	_, err = memberUsecase.Update(ctx, member.ID, usecase.UpdateMemberInput{FullName: &empty})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	negative := -5.0
	_, err = memberUsecase.Update(ctx, member.ID, usecase.UpdateMemberInput{AnnualSalary: &negative})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = memberUsecase.Update(ctx, uuid.New(), usecase.UpdateMemberInput{FullName: &newName})
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
}

func TestMemberService_ChangeStatus(t *testing.T) {
	memberUsecase, _ := newMemberFixture(t)
	ctx := context.Background()

	member, err := memberUsecase.Enroll(ctx, enrollInput())
	require.NoError(t, err)

	retired, err := memberUsecase.ChangeStatus(ctx, member.ID, entity.MemberStatusRetired)
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusRetired, retired.Status)

	// Deactivation is a status change, not a delete.
	deactivated, err := memberUsecase.ChangeStatus(ctx, member.ID, entity.MemberStatusDeactivated)
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusDeactivated, deactivated.Status)

	found, err := memberUsecase.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MemberStatusDeactivated, found.Status)

	_, err = memberUsecase.ChangeStatus(ctx, member.ID, entity.MemberStatus("frozen"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
