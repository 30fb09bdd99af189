package services

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

type fakeUserStore struct {
	byUsername map[string]*models.User
	created    []*models.User
	updated    []*models.User
}

func newFakeUserStore(existing ...*models.User) *fakeUserStore {
	store := &fakeUserStore{byUsername: make(map[string]*models.User)}
	for _, user := range existing {
		store.byUsername[user.Username] = user
	}
	return store
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, ok := s.byUsername[user.Username]; ok {
		return apperrors.ErrUsernameAlreadyExists
	}
	s.byUsername[user.Username] = user
	s.created = append(s.created, user)
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	s.byUsername[user.Username] = user
	s.updated = append(s.updated, user)
	return nil
}

type fakeClassStore struct {
	byName map[string]int64
	byID   map[int64]bool
}

func (s *fakeClassStore) GetIDByName(_ context.Context, name string) (int64, error) {
	if id, ok := s.byName[name]; ok {
		return id, nil
	}
	return 0, apperrors.ErrClassNotFound
}

func (s *fakeClassStore) Exists(_ context.Context, id int64) (bool, error) {
	return s.byID[id], nil
}

func runImport(t *testing.T, input string, users *fakeUserStore, classes *fakeClassStore) *dto.ImportResult {
	t.Helper()
	result, err := importUsers(context.Background(), csv.NewReader(strings.NewReader(input)), users, classes)
	require.NoError(t, err)
	return result
}

func TestImportUsersCreatesAndIsolatesBadRows(t *testing.T) {
	users := newFakeUserStore()
	classes := &fakeClassStore{byName: map[string]int64{"1-A": 7}, byID: map[int64]bool{7: true}}

	input := strings.Join([]string{
		"username,email,first_name,last_name,role,school_class,password",
		"s1,s1@example.com,Ada,L,student,1-A,secret123",
		"s2,,Bora,T,student,9-Z,secret123", // unknown class, row errors
		"t1,t1@example.com,Cem,U,teaching_teacher,,secret123",
	}, "\n")

	res := runImport(t, input, users, classes)

	assert.Equal(t, 2, res.CreatedCount)
	assert.Equal(t, 0, res.UpdatedCount)
	assert.Equal(t, 1, len(res.Errors))

	require.Len(t, users.created, 2)
	require.NotNil(t, users.created[0].SchoolClassID)
	assert.Equal(t, int64(7), *users.created[0].SchoolClassID)
	assert.Equal(t, models.RoleTeachingTeacher, users.created[1].Role)
	_, err := users.GetByUsername(context.Background(), "s2")
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}

func TestImportUsersEmptyClassClearsAssignment(t *testing.T) {
	users := newFakeUserStore()
	classes := &fakeClassStore{}

	input := "username,email,first_name,last_name,role,school_class,password\n" +
		"s1,,,,student,,pw123456"

	res := runImport(t, input, users, classes)

	assert.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, 0, len(res.Errors))
	require.Len(t, users.created, 1)
	assert.Nil(t, users.created[0].SchoolClassID)
}

func TestImportUsersUpdatesExistingUsername(t *testing.T) {
	seven := int64(7)
	users := newFakeUserStore(&models.User{
		Username: "s1", FirstName: "Old", Role: models.RoleStudent, SchoolClassID: &seven, Password: "oldhash",
	})
	classes := &fakeClassStore{}

	input := "username,email,first_name,last_name,role,school_class,password\n" +
		"s1,new@example.com,New,,student,,"

	res := runImport(t, input, users, classes)

	assert.Equal(t, 0, res.CreatedCount)
	assert.Equal(t, 1, res.UpdatedCount)
	require.Len(t, users.updated, 1)
	assert.Equal(t, "New", users.updated[0].FirstName)
	assert.Equal(t, "new@example.com", users.updated[0].Email)
	// Empty school_class clears a student's assignment on update too.
	assert.Nil(t, users.updated[0].SchoolClassID)
	// Blank password on an existing user keeps the stored hash.
	assert.Equal(t, "oldhash", users.updated[0].Password)
}

func TestImportUsersMissingPasswordErrorsNewRow(t *testing.T) {
	users := newFakeUserStore()
	classes := &fakeClassStore{}

	input := "username,email,first_name,last_name,role,school_class,password\n" +
		"s1,,,,student,,"

	res := runImport(t, input, users, classes)

	assert.Equal(t, 0, res.CreatedCount)
	assert.Equal(t, 1, len(res.Errors))
}

func TestImportUsersUnknownRole(t *testing.T) {
	users := newFakeUserStore()
	classes := &fakeClassStore{}

	input := "username,email,first_name,last_name,role,school_class,password\n" +
		"x1,,,,wizard,,pw123456"

	res := runImport(t, input, users, classes)

	assert.Equal(t, 0, res.CreatedCount)
	assert.Equal(t, 1, len(res.Errors))
}

func TestApplyPromotion(t *testing.T) {
	five, six := int64(5), int64(6)
	students := []*models.User{
		{ID: 5, Role: models.RoleStudent, SchoolClassID: &five},
		{ID: 6, Role: models.RoleStudent, SchoolClassID: &six},
	}

	var reassigned []int64
	result := applyPromotion(context.Background(), students, nil, nil, 3,
		func(_ context.Context, userID int64, classID *int64) error {
			require.NotNil(t, classID)
			assert.Equal(t, int64(3), *classID)
			reassigned = append(reassigned, userID)
			return nil
		})

	assert.Equal(t, 2, result.UpdatedCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []int64{5, 6}, reassigned)
}

func TestApplyPromotionSourceFilterSkipsSilently(t *testing.T) {
	one, two := int64(1), int64(2)
	students := []*models.User{
		{ID: 5, SchoolClassID: &one},
		{ID: 6, SchoolClassID: &two},
		{ID: 7}, // no home class
	}

	result := applyPromotion(context.Background(), students, &one, nil, 3,
		func(_ context.Context, userID int64, _ *int64) error {
			assert.Equal(t, int64(5), userID)
			return nil
		})

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Empty(t, result.Errors)
}

func TestApplyPromotionIsolatesFailures(t *testing.T) {
	students := []*models.User{{ID: 5}, {ID: 6}}

	result := applyPromotion(context.Background(), students, nil, nil, 3,
		func(_ context.Context, userID int64, _ *int64) error {
			if userID == 5 {
				return errors.New("boom")
			}
			return nil
		})

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, map[int64]string{5: "boom"}, result.Errors)
}
