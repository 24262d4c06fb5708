package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"
)

var (
	donor     = Actor{ID: 1, Role: role.Donor}
	recipient = Actor{ID: 2, Role: role.Recipient}
	admin     = Actor{ID: 3, Role: role.Admin}
	stranger  = Actor{ID: 9, Role: role.Donor}
)

func validDonationSpec() DonationSpec {
	return DonationSpec{
		FoodType:      "Яблоки",
		Category:      "Fruits",
		Description:   "Свежие яблоки с рынка",
		Amount:        50,
		Unit:          "kg",
		ExpiryDate:    time.Now().Add(48 * time.Hour),
		PickupAddress: "ул. Ленина, 1",
		PickupCity:    "Москва",
		PickupFrom:    time.Now().Add(time.Hour),
		PickupTo:      time.Now().Add(6 * time.Hour),
	}
}

func seedDonation(t *testing.T, svc *Service) *ds.Donation {
	t.Helper()
	donation, err := svc.CreateDonation(donor, validDonationSpec())
	require.NoError(t, err)
	return donation
}

func TestCreateDonation(t *testing.T) {
	svc := NewService(newMemStore())

	t.Run("happy path", func(t *testing.T) {
		donation, err := svc.CreateDonation(donor, validDonationSpec())
		require.NoError(t, err)
		assert.Equal(t, ds.DonationAvailable, donation.Status)
		assert.Equal(t, donor.ID, donation.DonorID)
		assert.EqualValues(t, 0, donation.Version)
		assert.NotZero(t, donation.ID)
	})

	t.Run("recipient cannot donate", func(t *testing.T) {
		_, err := svc.CreateDonation(recipient, validDonationSpec())
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]func(*DonationSpec){
			"empty food type":   func(s *DonationSpec) { s.FoodType = "" },
			"unknown category":  func(s *DonationSpec) { s.Category = "Снеки" },
			"zero amount":       func(s *DonationSpec) { s.Amount = 0 },
			"negative amount":   func(s *DonationSpec) { s.Amount = -5 },
			"unknown unit":      func(s *DonationSpec) { s.Unit = "boxes" },
			"expired already":   func(s *DonationSpec) { s.ExpiryDate = time.Now().Add(-time.Hour) },
			"no pickup address": func(s *DonationSpec) { s.PickupAddress = "" },
			"no pickup city":    func(s *DonationSpec) { s.PickupCity = "" },
			"inverted window":   func(s *DonationSpec) { s.PickupFrom, s.PickupTo = s.PickupTo, s.PickupFrom },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				spec := validDonationSpec()
				mutate(&spec)
				_, err := svc.CreateDonation(donor, spec)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})
}

func TestUpdateDonation(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("owner edits available donation", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)

		updated, err := svc.UpdateDonation(donor, donation.ID, DonationUpdate{
			Description: strPtr("остатки после ярмарки"),
			Amount:      floatPtr(35),
		})
		require.NoError(t, err)
		assert.Equal(t, "остатки после ярмарки", updated.Description)
		assert.Equal(t, 35.0, updated.Amount)
		assert.Equal(t, ds.DonationAvailable, updated.Status)

		got, err := store.GetDonation(donation.ID)
		require.NoError(t, err)
		assert.Equal(t, 35.0, got.Amount)
	})

	t.Run("claimed donation is not editable", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		_, err = svc.UpdateDonation(donor, donation.ID, DonationUpdate{Amount: floatPtr(10)})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("stranger is not allowed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.UpdateDonation(stranger, donation.ID, DonationUpdate{Amount: floatPtr(10)})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		cases := map[string]DonationUpdate{
			"empty food type":  {FoodType: strPtr("")},
			"unknown category": {Category: strPtr("Снеки")},
			"zero amount":      {Amount: floatPtr(0)},
			"unknown unit":     {Unit: strPtr("boxes")},
		}
		for name, upd := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.UpdateDonation(donor, donation.ID, upd)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})

	t.Run("window stays consistent", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		late := donation.PickupTo.Add(time.Hour)
		_, err := svc.UpdateDonation(donor, donation.ID, DonationUpdate{PickupFrom: &late})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestClaimDonation(t *testing.T) {
	t.Run("available becomes claimed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		claimed, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationClaimed, claimed.Status)
		require.NotNil(t, claimed.ClaimedBy)
		assert.Equal(t, recipient.ID, *claimed.ClaimedBy)
		assert.NotNil(t, claimed.ClaimedAt)
		assert.EqualValues(t, 1, claimed.Version)
	})

	t.Run("donor cannot claim", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.ClaimDonation(donor, donation.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("second claim is rejected", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		other := Actor{ID: 7, Role: role.Recipient}
		_, err = svc.ClaimDonation(other, donation.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("unknown donation", func(t *testing.T) {
		svc := NewService(newMemStore())
		_, err := svc.ClaimDonation(recipient, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCompleteDonation(t *testing.T) {
	t.Run("only from claimed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.CompleteDonation(donor, donation.ID, DonationOutcome{})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("records rating and feedback", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		rating := 5
		completed, err := svc.CompleteDonation(recipient, donation.ID, DonationOutcome{
			Rating:   &rating,
			Feedback: "все отлично",
		})
		require.NoError(t, err)
		assert.Equal(t, ds.DonationCompleted, completed.Status)
		require.NotNil(t, completed.Rating)
		assert.Equal(t, 5, *completed.Rating)
		assert.Equal(t, "все отлично", completed.Feedback)
		assert.NotNil(t, completed.CompletedAt)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		rating := 6
		_, err = svc.CompleteDonation(recipient, donation.ID, DonationOutcome{Rating: &rating})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("outsider is not allowed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		_, err = svc.CompleteDonation(stranger, donation.ID, DonationOutcome{})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestRateDonation(t *testing.T) {
	svc := NewService(newMemStore())
	donation := seedDonation(t, svc)
	_, err := svc.ClaimDonation(recipient, donation.ID)
	require.NoError(t, err)

	t.Run("before completion", func(t *testing.T) {
		rating := 4
		_, err := svc.RateDonation(recipient, donation.ID, DonationOutcome{Rating: &rating})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	_, err = svc.CompleteDonation(recipient, donation.ID, DonationOutcome{})
	require.NoError(t, err)

	t.Run("after completion", func(t *testing.T) {
		rating := 4
		rated, err := svc.RateDonation(recipient, donation.ID, DonationOutcome{Rating: &rating, Feedback: "спасибо"})
		require.NoError(t, err)
		require.NotNil(t, rated.Rating)
		assert.Equal(t, 4, *rated.Rating)
		assert.Equal(t, "спасибо", rated.Feedback)
	})
}

func TestCancelDonation(t *testing.T) {
	t.Run("owner cancels available", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		cancelled, err := svc.CancelDonation(donor, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationCancelled, cancelled.Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		first, err := svc.CancelDonation(donor, donation.ID)
		require.NoError(t, err)
		again, err := svc.CancelDonation(donor, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationCancelled, again.Status)
		assert.Equal(t, first.Version, again.Version)
	})

	t.Run("cancel of claimed releases the claim", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		cancelled, err := svc.CancelDonation(donor, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationCancelled, cancelled.Status)
		assert.Nil(t, cancelled.ClaimedBy)
		assert.Nil(t, cancelled.ClaimedAt)

		got, err := store.GetDonation(donation.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ClaimedBy)
		assert.Nil(t, got.ClaimedAt)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)
		_, err = svc.CompleteDonation(donor, donation.ID, DonationOutcome{})
		require.NoError(t, err)

		_, err = svc.CancelDonation(donor, donation.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("stranger is not allowed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.CancelDonation(stranger, donation.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("admin may cancel someone else's", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		cancelled, err := svc.CancelDonation(admin, donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationCancelled, cancelled.Status)
	})
}

func TestExpireOverdue(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	first := seedDonation(t, svc)
	second := seedDonation(t, svc)

	claimed, err := svc.CreateDonation(donor, validDonationSpec())
	require.NoError(t, err)
	_, err = svc.ClaimDonation(recipient, claimed.ID)
	require.NoError(t, err)

	// срок годности двух пожертвований уже в прошлом
	future := time.Now().Add(72 * time.Hour)

	affected, err := svc.ExpireOverdue(future)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	got, err := store.GetDonation(first.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.DonationExpired, got.Status)

	got, err = store.GetDonation(second.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.DonationExpired, got.Status)

	// заклеймленное пожертвование проверка не трогает
	got, err = store.GetDonation(claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.DonationClaimed, got.Status)

	affected, err = svc.ExpireOverdue(future)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestStaleWriteIsRejected(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	donation := seedDonation(t, svc)

	stale, err := store.GetDonation(donation.ID)
	require.NoError(t, err)

	_, err = svc.ClaimDonation(recipient, donation.ID)
	require.NoError(t, err)

	// копия с устаревшей версией не проходит условную запись
	stale.Status = ds.DonationCancelled
	err = store.SaveDonation(stale)
	assert.True(t, errors.Is(err, ErrConflict))
}
