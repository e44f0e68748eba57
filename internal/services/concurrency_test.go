package services_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"orderuz/internal/models"
	"orderuz/internal/repositories"
	"orderuz/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parallel runs fn n times from separate goroutines released together.
func parallel(n int, fn func(i int)) {
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
}

func TestAccountWritesFromSeveralServices(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(8))

	repo := repositories.NewMockAccountRepository()
	account := &models.Account{Name: "Aziz", Email: "aziz@orderuz.com", FollowedRestaurants: []string{}}
	require.NoError(t, repo.Create(account))

	catalog := repositories.NewMockCatalogRepository()
	require.NoError(t, repositories.SeedCatalog(catalog))

	accounts := services.NewAccountService(repo, testJWTSecret)
	follows := services.NewFollowService(repo)
	feed := services.NewFeedService(catalog, follows, repo)
	orders, _ := newOrderService(newFakeClock(), nil)
	orders.Subscribe(accounts.OnOrderChange)

	const n = 200
	parallel(4*n+1, func(i int) {
		switch i % 4 {
		case 0:
			assert.NoError(t, follows.Follow(account.ID, fmt.Sprintf("r-%d", i)))
		case 1:
			_, err := orders.CreateOrder(account.ID, plovOrder())
			assert.NoError(t, err)
		case 2:
			_, err := feed.ToggleSave(account.ID, "vid-1")
			assert.NoError(t, err)
		case 3:
			phone := fmt.Sprintf("+99890%07d", i)
			_, err := accounts.UpdateProfile(account.ID, services.ProfileUpdate{Phone: &phone})
			assert.NoError(t, err)
		}
	})

	got, err := repo.GetByID(account.ID)
	require.NoError(t, err)
	assert.Len(t, got.FollowedRestaurants, n+1)
	assert.Equal(t, n, got.OrdersCount)
	// An even number of toggles leaves nothing saved.
	assert.Equal(t, 0, got.SavedCount)
	assert.NotEmpty(t, got.Phone)
	assert.Equal(t, "Aziz", got.Name)
}

func TestTrackersAdvanceOrdersInTheSameTick(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(8))

	clock := newFakeClock()
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil,
		services.WithClock(clock.Now),
		services.WithTrackerInterval(2*time.Millisecond),
	)
	defer svc.Shutdown()

	var mu sync.Mutex
	statusChanges := map[string]int{}
	svc.Subscribe(func(c services.OrderChange) {
		if c.Type != models.EventOrderStatusChanged {
			return
		}
		mu.Lock()
		statusChanges[c.Order.ID]++
		mu.Unlock()
	})

	first, err := svc.CreateOrder("acc-1", plovOrder())
	require.NoError(t, err)
	second, err := svc.CreateOrder("acc-2", plovOrder())
	require.NoError(t, err)

	// Both timers and a burst of manual ticks race past every threshold.
	now := clock.Add(services.CompletedAfter + time.Second)
	parallel(20, func(i int) {
		id := first.ID
		if i%2 == 1 {
			id = second.ID
		}
		_, err := svc.Advance(id, now)
		assert.NoError(t, err)
	})

	for _, id := range []string{first.ID, second.ID} {
		assert.Eventually(t, func() bool {
			got, err := svc.GetOrderByID(id)
			return err == nil && got.Status == models.StatusCompleted
		}, 2*time.Second, 2*time.Millisecond)
		got, _ := svc.GetOrderByID(id)
		for _, stage := range got.TrackingStages {
			assert.True(t, stage.Completed)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	// Catch-up applies all thresholds in one committed change per order.
	assert.Equal(t, 1, statusChanges[first.ID])
	assert.Equal(t, 1, statusChanges[second.ID])
}
