package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/app/services"
)

func newSettingService(t *testing.T) *services.SettingService {
	t.Helper()
	setupDB(t)
	return services.NewSettingService(repositories.NewSettingRepository())
}

func TestSettingGetCreatesSingleton(t *testing.T) {
	svc := newSettingService(t)

	setting, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, models.SettingID, setting.ID)
	assert.True(t, setting.PageEnabled)
}

func TestSetPageEnabledFlipsExactlyOneRow(t *testing.T) {
	svc := newSettingService(t)

	_, err := svc.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.SetPageEnabled(context.Background(), false))

	setting, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, setting.PageEnabled)
}

func TestSetPageEnabledWithoutRowIsNoop(t *testing.T) {
	svc := newSettingService(t)

	err := svc.SetPageEnabled(context.Background(), false)
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
	assert.Equal(t, 400, services.HTTPStatus(err))
}

func TestUpsertConditionWritesOnlyItsColumn(t *testing.T) {
	svc := newSettingService(t)

	require.NoError(t, svc.UpsertCondition(context.Background(),
		services.ConditionPromotion, "3 cuotas sin interés"))
	require.NoError(t, svc.UpsertCondition(context.Background(),
		services.ConditionProduct, "cambios dentro de los 30 días"))

	setting, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3 cuotas sin interés", setting.ConditionPromotion)
	assert.Equal(t, "cambios dentro de los 30 días", setting.ConditionProduct)
}

func TestUpsertConditionRejectsUnknownColumn(t *testing.T) {
	svc := newSettingService(t)

	err := svc.UpsertCondition(context.Background(), "drop_table", "x")
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
}
