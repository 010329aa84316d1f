package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/events"
)

func TestStaffService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addStaff(t, "admin", "Ada", "Admin", domain.StaffRoleAdmin)
	svc := f.staffService()

	created, err := svc.CreateStaffMember(ctx, admin, NewStaffMember{
		Username: "lecturer",
		Name:     "Lee",
		Surname:  "Naidoo",
		Email:    "Lee@DUT.ac.za",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StaffRoleStaff, created.Role)
	require.Equal(t, "lee@dut.ac.za", created.Email)
	require.True(t, created.Active)
	require.Len(t, f.published, 1)
	require.Equal(t, events.EventStaffCreated, f.published[0].Type)

	_, err = svc.CreateStaffMember(ctx, admin, NewStaffMember{Username: "lecturer", Email: "x@dut.ac.za", Password: testPassword})
	requireCode(t, err, "CONFLICT")

	role := domain.StaffRoleStaff
	list, err := svc.ListStaffMembers(ctx, admin, StaffListFilters{Role: &role})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)

	_, err = svc.ListStaffMembers(ctx, created, StaffListFilters{})
	requireCode(t, err, "FORBIDDEN")
}

func TestStaffService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.addStaff(t, "admin", "Ada", "Admin", domain.StaffRoleAdmin)
	lecturer := f.addStaff(t, "lecturer", "Lee", "Naidoo", domain.StaffRoleStaff)
	svc := f.staffService()

	promoted := domain.StaffRoleAdmin
	inactive := false
	updated, err := svc.UpdateStaffMember(ctx, admin, lecturer.ID, StaffUpdate{Role: &promoted, Active: &inactive})
	require.NoError(t, err)
	require.Equal(t, domain.StaffRoleAdmin, updated.Role)
	require.False(t, updated.Active)
	require.Equal(t, "Lee", updated.Name)
	require.Len(t, f.published, 1)
	require.Equal(t, events.EventStaffUpdated, f.published[0].Type)
	payload, ok := f.published[0].Payload.(events.StaffChangedPayload)
	require.True(t, ok)
	require.Equal(t, lecturer.ID, payload.StaffID)
	require.False(t, payload.Active)

	taken := admin.Email
	_, err = svc.UpdateStaffMember(ctx, admin, lecturer.ID, StaffUpdate{Email: &taken})
	requireCode(t, err, "CONFLICT")

	_, err = svc.UpdateStaffMember(ctx, admin, admin.ID, StaffUpdate{Active: &inactive})
	requireCode(t, err, "CONFLICT")

	_, err = svc.UpdateStaffMember(ctx, admin, "missing", StaffUpdate{})
	requireCode(t, err, "NOT_FOUND")
}
