package notifysvc

import (
	"sync"

	"github.com/trezcool/shule/core"
)

// DummyService records every notification instead of displaying it; tests
// assert against Successes/Errors.
type DummyService struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

var _ core.Notifier = (*DummyService)(nil)

func NewDummyService() *DummyService {
	return &DummyService{}
}

func (svc *DummyService) Success(msg string) {
	svc.mu.Lock()
	svc.Successes = append(svc.Successes, msg)
	svc.mu.Unlock()
}

func (svc *DummyService) Error(msg string) {
	svc.mu.Lock()
	svc.Errors = append(svc.Errors, msg)
	svc.mu.Unlock()
}

// Reset clears recorded notifications between test cases.
func (svc *DummyService) Reset() {
	svc.mu.Lock()
	svc.Successes, svc.Errors = nil, nil
	svc.mu.Unlock()
}
