package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/pkg/database"
)

// ==================== 测试辅助 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := database.InitDB(":memory:", false, &model.SessionRecord{}, &model.Favorite{})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	return db
}

func testLandlord() *model.Landlord {
	return &model.Landlord{
		ID:        7,
		Name:      "Jane Wanjiru",
		Phone:     "0712345678",
		Location:  "Kilimani",
		Rating:    4.5,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ==================== SessionRepository ====================

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	repo := NewSessionRepository(setupRepoTestDB(t))
	ctx := context.Background()

	token, landlord, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, landlord)

	require.NoError(t, repo.Save(ctx, "tok-1", testLandlord()))

	token, landlord, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	require.NotNil(t, landlord)
	assert.Equal(t, *testLandlord(), *landlord)
}

func TestSessionRepository_SaveOverwrites(t *testing.T) {
	repo := NewSessionRepository(setupRepoTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok-1", testLandlord()))
	other := testLandlord()
	other.Name = "Peter Otieno"
	require.NoError(t, repo.Save(ctx, "tok-2", other))

	token, landlord, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
	assert.Equal(t, "Peter Otieno", landlord.Name)
}

func TestSessionRepository_UpdateLandlordKeepsToken(t *testing.T) {
	repo := NewSessionRepository(setupRepoTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok-1", testLandlord()))
	updated := testLandlord()
	updated.Email = "jane@example.com"
	require.NoError(t, repo.UpdateLandlord(ctx, updated))

	token, landlord, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "jane@example.com", landlord.Email)
}

func TestSessionRepository_ClearIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(setupRepoTestDB(t))
	ctx := context.Background()

	assert.NoError(t, repo.Clear(ctx))

	require.NoError(t, repo.Save(ctx, "tok-1", testLandlord()))
	assert.NoError(t, repo.Clear(ctx))
	assert.NoError(t, repo.Clear(ctx))

	token, err := repo.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

// ==================== FavoriteRepository ====================

func TestFavoriteRepository(t *testing.T) {
	repo := NewFavoriteRepository(setupRepoTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, 3))
	require.NoError(t, repo.Add(ctx, 1))
	require.NoError(t, repo.Add(ctx, 3)) // 重复

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)

	ok, err := repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Remove(ctx, 1))
	ok, err = repo.Exists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的收藏不报错
	assert.NoError(t, repo.Remove(ctx, 42))
}
