// Package model provides estimator interfaces, fitted-state tracking and
// persistence helpers shared by the glmnet models.
package model

import (
	"sync"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
)

// StateManager manages the fitted state of a model in a thread-safe manner.
type StateManager struct {
	Fitted bool // Public for gob encoding
	mu     sync.RWMutex

	// Dimensions seen during fitting - Public for gob encoding
	NFeatures int
	NSamples  int
	NClasses  int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
	s.NClasses = 0
}

// SetDimensions records the shape of the training data.
func (s *StateManager) SetDimensions(nFeatures, nSamples, nClasses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NFeatures = nFeatures
	s.NSamples = nSamples
	s.NClasses = nClasses
}

// GetDimensions returns the number of features, samples and response columns seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples, nClasses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples, s.NClasses
}

// RequireFitted returns a NotFittedError naming modelName and method if the
// model has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// Clone returns an independent copy of the state.
func (s *StateManager) Clone() *StateManager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &StateManager{
		Fitted:    s.Fitted,
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
		NClasses:  s.NClasses,
	}
}

// ModelState represents the complete state of a model for serialization and debugging.
type ModelState struct {
	Fitted    bool                   `json:"fitted"`
	NFeatures int                    `json:"n_features,omitempty"`
	NSamples  int                    `json:"n_samples,omitempty"`
	NClasses  int                    `json:"n_classes,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:    s.Fitted,
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
		NClasses:  s.NClasses,
	}
}

// SetState sets the state from a ModelState struct.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Fitted = state.Fitted
	s.NFeatures = state.NFeatures
	s.NSamples = state.NSamples
	s.NClasses = state.NClasses
}
