package services

import "sync"

// TokenStore keeps FCM device tokens in memory
type TokenStore struct {
	mu          sync.RWMutex
	drivers     map[string]string
	supervisors map[string]struct{}
}

// NewTokenStore creates an empty TokenStore
func NewTokenStore() *TokenStore {
	return &TokenStore{
		drivers:     make(map[string]string),
		supervisors: make(map[string]struct{}),
	}
}

// SetDriverToken replaces the device token of a driver
func (s *TokenStore) SetDriverToken(licenseNumber, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[licenseNumber] = token
}

// DriverToken returns the device token of a driver, if registered
func (s *TokenStore) DriverToken(licenseNumber string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.drivers[licenseNumber]
	return token, ok
}

// RemoveDriverTokens forgets the tokens of the given drivers
func (s *TokenStore) RemoveDriverTokens(licenseNumbers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ln := range licenseNumbers {
		delete(s.drivers, ln)
	}
}

// AddSupervisorToken registers a supervisor device for fleet-wide alerts
func (s *TokenStore) AddSupervisorToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supervisors[token] = struct{}{}
}

// SupervisorTokens returns all supervisor device tokens
func (s *TokenStore) SupervisorTokens() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]string, 0, len(s.supervisors))
	for t := range s.supervisors {
		tokens = append(tokens, t)
	}
	return tokens
}
