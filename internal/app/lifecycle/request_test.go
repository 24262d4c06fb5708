package lifecycle

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/role"
)

func validRequestSpec(donationID uint) RequestSpec {
	return RequestSpec{
		DonationID:     donationID,
		Amount:         20,
		Unit:           "kg",
		Message:        "заберем сегодня вечером",
		DeliveryMethod: ds.DeliveryPickup,
	}
}

func seedRequest(t *testing.T, svc *Service, actor Actor, donationID uint) *ds.Request {
	t.Helper()
	request, err := svc.CreateRequest(actor, validRequestSpec(donationID))
	require.NoError(t, err)
	return request
}

func TestCreateRequest(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		request, err := svc.CreateRequest(recipient, validRequestSpec(donation.ID))
		require.NoError(t, err)
		assert.Equal(t, ds.RequestPending, request.Status)
		assert.Equal(t, recipient.ID, request.RecipientID)
		assert.Equal(t, donation.ID, request.DonationID)
		assert.EqualValues(t, 0, request.Version)
	})

	t.Run("donor cannot request", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		_, err := svc.CreateRequest(donor, validRequestSpec(donation.ID))
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)

		cases := map[string]func(*RequestSpec){
			"zero amount":    func(s *RequestSpec) { s.Amount = 0 },
			"unknown unit":   func(s *RequestSpec) { s.Unit = "boxes" },
			"bad delivery":   func(s *RequestSpec) { s.DeliveryMethod = "teleport" },
			"empty delivery": func(s *RequestSpec) { s.DeliveryMethod = "" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				spec := validRequestSpec(donation.ID)
				mutate(&spec)
				_, err := svc.CreateRequest(recipient, spec)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
	})

	t.Run("claimed donation is unavailable", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		_, err := svc.ClaimDonation(recipient, donation.ID)
		require.NoError(t, err)

		other := Actor{ID: 7, Role: role.Recipient}
		_, err = svc.CreateRequest(other, validRequestSpec(donation.ID))
		assert.ErrorIs(t, err, ErrDonationUnavailable)
	})

	t.Run("unknown donation", func(t *testing.T) {
		svc := NewService(newMemStore())
		_, err := svc.CreateRequest(recipient, validRequestSpec(404))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateRequest(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	t.Run("author edits pending request", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		updated, err := svc.UpdateRequest(recipient, request.ID, RequestUpdate{
			Amount:         floatPtr(15),
			DeliveryMethod: strPtr(ds.DeliveryDelivery),
		})
		require.NoError(t, err)
		assert.Equal(t, 15.0, updated.RequestedAmount)
		assert.Equal(t, ds.DeliveryDelivery, updated.DeliveryMethod)
		assert.Equal(t, ds.RequestPending, updated.Status)

		got, err := store.GetRequest(request.ID)
		require.NoError(t, err)
		assert.Equal(t, 15.0, got.RequestedAmount)
	})

	t.Run("approved request is not editable", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)
		_, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)

		_, err = svc.UpdateRequest(recipient, request.ID, RequestUpdate{Amount: floatPtr(5)})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("stranger is not allowed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.UpdateRequest(stranger, request.ID, RequestUpdate{Amount: floatPtr(5)})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.UpdateRequest(recipient, request.ID, RequestUpdate{Amount: floatPtr(0)})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.UpdateRequest(recipient, request.ID, RequestUpdate{Unit: strPtr("boxes")})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.UpdateRequest(recipient, request.ID, RequestUpdate{DeliveryMethod: strPtr("teleport")})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestApproveRequest(t *testing.T) {
	t.Run("approve claims donation for recipient", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		approved, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.RequestApproved, approved.Status)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, donor.ID, *approved.ApprovedBy)
		assert.NotNil(t, approved.ApprovedAt)

		got, err := store.GetDonation(donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationClaimed, got.Status)
		require.NotNil(t, got.ClaimedBy)
		assert.Equal(t, recipient.ID, *got.ClaimedBy)
	})

	t.Run("only donation owner or admin", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.ApproveRequest(stranger, request.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)

		_, err = svc.ApproveRequest(admin, request.ID)
		require.NoError(t, err)
	})

	t.Run("sibling pendings are auto-rejected", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)

		other := Actor{ID: 7, Role: role.Recipient}
		winner := seedRequest(t, svc, recipient, donation.ID)
		loser := seedRequest(t, svc, other, donation.ID)

		_, err := svc.ApproveRequest(donor, winner.ID)
		require.NoError(t, err)

		got, err := store.GetRequest(loser.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.RequestRejected, got.Status)
		assert.NotNil(t, got.RejectedAt)
		assert.NotEmpty(t, got.RejectionReason)
	})

	t.Run("second approval fails and mutates nothing", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)

		other := Actor{ID: 7, Role: role.Recipient}
		first := seedRequest(t, svc, recipient, donation.ID)
		second := seedRequest(t, svc, other, donation.ID)

		_, err := svc.ApproveRequest(donor, first.ID)
		require.NoError(t, err)

		_, err = svc.ApproveRequest(donor, second.ID)
		assert.ErrorIs(t, err, ErrInvalidState)

		got, err := store.GetDonation(donation.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ClaimedBy)
		assert.Equal(t, recipient.ID, *got.ClaimedBy)

		gotReq, err := store.GetRequest(second.ID)
		require.NoError(t, err)
		assert.NotEqual(t, ds.RequestApproved, gotReq.Status)
	})

	t.Run("cancelled donation cannot be approved into", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.CancelDonation(donor, donation.ID)
		require.NoError(t, err)

		_, err = svc.ApproveRequest(donor, request.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

// Гонка двух одобрений по одному пожертвованию: побеждает ровно одно,
// проигравшее получает ErrConflict от условной записи, пожертвование
// заклеймлено за получателем победителя.
func TestApproveRequestRace(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	donation := seedDonation(t, svc)

	other := Actor{ID: 7, Role: role.Recipient}
	r1 := seedRequest(t, svc, recipient, donation.ID)
	r2 := seedRequest(t, svc, other, donation.ID)

	// обе стороны проходят проверки по одному и тому же снимку состояния
	req1, err := store.GetRequest(r1.ID)
	require.NoError(t, err)
	req2, err := store.GetRequest(r2.ID)
	require.NoError(t, err)
	d1, err := store.GetDonation(donation.ID)
	require.NoError(t, err)
	d2, err := store.GetDonation(donation.ID)
	require.NoError(t, err)

	req1.Status = ds.RequestApproved
	req2.Status = ds.RequestApproved
	c1, c2 := req1.RecipientID, req2.RecipientID
	d1.Status = ds.DonationClaimed
	d1.ClaimedBy = &c1
	d2.Status = ds.DonationClaimed
	d2.ClaimedBy = &c2

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = store.SaveClaim(req1, d1)
	}()
	go func() {
		defer wg.Done()
		errs[1] = store.SaveClaim(req2, d2)
	}()
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, ErrConflict), "проигравший должен получить ErrConflict, получено: %v", err)
		}
	}
	require.Equal(t, 1, winners)

	got, err := store.GetDonation(donation.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.DonationClaimed, got.Status)
	require.NotNil(t, got.ClaimedBy)
	if errs[0] == nil {
		assert.Equal(t, recipient.ID, *got.ClaimedBy)
	} else {
		assert.Equal(t, other.ID, *got.ClaimedBy)
	}

	// ровно одна заявка одобрена
	approved := 0
	for _, id := range []uint{r1.ID, r2.ID} {
		gotReq, err := store.GetRequest(id)
		require.NoError(t, err)
		if gotReq.Status == ds.RequestApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}

func TestRejectRequest(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		rejected, err := svc.RejectRequest(donor, request.ID, "слишком далеко")
		require.NoError(t, err)
		assert.Equal(t, ds.RequestRejected, rejected.Status)
		assert.Equal(t, "слишком далеко", rejected.RejectionReason)
		assert.NotNil(t, rejected.RejectedAt)
	})

	t.Run("default reason", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		rejected, err := svc.RejectRequest(donor, request.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "причина не указана", rejected.RejectionReason)
	})

	t.Run("only pending", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)

		_, err = svc.RejectRequest(donor, request.ID, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("recipient cannot reject", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.RejectRequest(recipient, request.ID, "")
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestCompleteRequest(t *testing.T) {
	t.Run("only approved", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.CompleteRequest(recipient, request.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("approved becomes completed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)
		_, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)

		completed, err := svc.CompleteRequest(recipient, request.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.RequestCompleted, completed.Status)
		assert.NotNil(t, completed.CompletedAt)
	})

	t.Run("donor of the donation may complete", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)
		_, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)

		completed, err := svc.CompleteRequest(donor, request.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.RequestCompleted, completed.Status)
	})
}

func TestCancelRequest(t *testing.T) {
	t.Run("pending cancels", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		cancelled, err := svc.CancelRequest(recipient, request.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.RequestCancelled, cancelled.Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		first, err := svc.CancelRequest(recipient, request.ID)
		require.NoError(t, err)
		again, err := svc.CancelRequest(recipient, request.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Version, again.Version)
	})

	t.Run("cancel of approved keeps donation claimed", func(t *testing.T) {
		store := newMemStore()
		svc := NewService(store)
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)
		_, err := svc.ApproveRequest(donor, request.ID)
		require.NoError(t, err)

		_, err = svc.CancelRequest(recipient, request.ID)
		require.NoError(t, err)

		got, err := store.GetDonation(donation.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.DonationClaimed, got.Status)
	})

	t.Run("rejected cannot be cancelled", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)
		_, err := svc.RejectRequest(donor, request.ID, "")
		require.NoError(t, err)

		_, err = svc.CancelRequest(recipient, request.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("stranger is not allowed", func(t *testing.T) {
		svc := NewService(newMemStore())
		donation := seedDonation(t, svc)
		request := seedRequest(t, svc, recipient, donation.ID)

		_, err := svc.CancelRequest(stranger, request.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

// Сценарий из жизни: донор публикует 50 кг яблок, две заявки,
// одобрение первой клеймит пожертвование, вторую одобрить уже нельзя,
// завершение с оценкой 5.
func TestDonationFlow(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	donation, err := svc.CreateDonation(donor, validDonationSpec())
	require.NoError(t, err)

	other := Actor{ID: 7, Role: role.Recipient}
	r1 := seedRequest(t, svc, recipient, donation.ID)
	r2 := seedRequest(t, svc, other, donation.ID)

	approved, err := svc.ApproveRequest(donor, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.RequestApproved, approved.Status)

	got, err := store.GetDonation(donation.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.DonationClaimed, got.Status)
	require.NotNil(t, got.ClaimedBy)
	assert.Equal(t, recipient.ID, *got.ClaimedBy)

	_, err = svc.ApproveRequest(donor, r2.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.CompleteRequest(recipient, r1.ID)
	require.NoError(t, err)

	rating := 5
	completed, err := svc.CompleteDonation(donor, donation.ID, DonationOutcome{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, ds.DonationCompleted, completed.Status)
	require.NotNil(t, completed.Rating)
	assert.Equal(t, 5, *completed.Rating)
}
