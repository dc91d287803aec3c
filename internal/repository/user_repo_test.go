package repository

import (
	"Campus/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFindByNicknameContains(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	for _, u := range []*model.User{
		{ID: 1, Nickname: "Dana"},
		{ID: 2, Nickname: "Daniel"},
		{ID: 3, Nickname: "Bob"},
	} {
		require.NoError(t, db.Create(u).Error)
	}

	// "dan" 同时命中 Dana 和 Daniel
	users, err := repo.FindByNicknameContains(ctx, "dan")
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = repo.FindByNicknameContains(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, uint64(3), users[0].ID)

	users, err = repo.FindByNicknameContains(ctx, "zzz")
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestFindByNicknameContainsLiteralWildcards(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	for _, u := range []*model.User{
		{ID: 1, Nickname: "Dana"},
		{ID: 2, Nickname: "d_nathan"},
		{ID: 3, Nickname: "100%sure"},
	} {
		require.NoError(t, db.Create(u).Error)
	}

	// "_" 按字面匹配，不能当单字符通配符命中 Dana
	users, err := repo.FindByNicknameContains(ctx, "d_na")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, uint64(2), users[0].ID)

	users, err = repo.FindByNicknameContains(ctx, "0%s")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, uint64(3), users[0].ID)

	users, err = repo.FindByNicknameContains(ctx, "a%a")
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestTouchLastActiveAndCountOnline(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	now := time.Now()
	stale := now.Add(-time.Hour)
	for _, u := range []*model.User{
		{ID: 1, Nickname: "a", ShowOnline: true, LastActiveAt: &now},
		{ID: 2, Nickname: "b", ShowOnline: true, LastActiveAt: &stale},
		{ID: 3, Nickname: "c", ShowOnline: false, LastActiveAt: &now}, // 关闭展示，不计入在线
		{ID: 4, Nickname: "d", ShowOnline: true},                      // 从未活跃
	} {
		require.NoError(t, db.Create(u).Error)
	}

	activeAfter := now.Add(-5 * time.Minute)
	count, err := repo.CountOnline(ctx, []uint64{1, 2, 3, 4}, activeAfter)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// 打点后 2 号重新计入
	require.NoError(t, repo.TouchLastActive(ctx, 2, now))
	count, err = repo.CountOnline(ctx, []uint64{1, 2, 3, 4}, activeAfter)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountOnline(ctx, nil, activeAfter)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestGetUserByIDNotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	u, err := repo.GetUserByID(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, u)
}
