package repositories

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"ballotbox/models"
)

func TestInMemoryUserUniqueness(t *testing.T) {
	store := NewInMemoryStore()
	users := store.Users()

	first := &models.User{Name: "A", NationalID: "123456789012", Role: models.RoleVoter, PasswordHash: "x"}
	if err := users.Create(first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &models.User{Name: "B", NationalID: "123456789012", Role: models.RoleVoter, PasswordHash: "x"}
	if err := users.Create(dup); !errors.Is(err, ErrDuplicateNationalID) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateNationalID", err)
	}

	got, err := users.GetByNationalID("123456789012")
	if err != nil {
		t.Fatalf("GetByNationalID() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("GetByNationalID() id = %d, want %d", got.ID, first.ID)
	}
}

func TestRecordKeepsCountInLockstep(t *testing.T) {
	store := NewInMemoryStore()
	candidate := &models.Candidate{Name: "X", Party: "P"}
	if err := store.Candidates().Create(candidate); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const voters = 8
	for i := 0; i < voters; i++ {
		user := &models.User{Name: "V", NationalID: nationalID(i), Role: models.RoleVoter, PasswordHash: "x"}
		if err := store.Users().Create(user); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := store.Record(user.ID, candidate.ID); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Candidates().GetByID(candidate.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.VoteCount != voters {
		t.Errorf("VoteCount = %d, want %d", got.VoteCount, voters)
	}
	if len(got.Votes) != got.VoteCount {
		t.Errorf("len(Votes) = %d, VoteCount = %d; must match", len(got.Votes), got.VoteCount)
	}
}

// Concurrent Record calls for one voter must admit exactly one winner.
func TestRecordConcurrentSingleVoter(t *testing.T) {
	store := NewInMemoryStore()
	user := &models.User{Name: "V", NationalID: "123456789012", Role: models.RoleVoter, PasswordHash: "x"}
	if err := store.Users().Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	candidate := &models.Candidate{Name: "X", Party: "P"}
	if err := store.Candidates().Create(candidate); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := store.Record(user.ID, candidate.ID); {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
			default:
				t.Errorf("Record() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Fatalf("%d Record calls succeeded, want exactly 1", got)
	}
}

func nationalID(i int) string {
	digits := []byte("000000000000")
	for pos := len(digits) - 1; i > 0 && pos >= 0; pos-- {
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits)
}
