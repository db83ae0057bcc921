package input

import "sync"

// Sampler accumulates raw look deltas and held keys between ticks. Producers
// (a terminal reader, a script) may call Look and SetKeys from any goroutine;
// the tick owner calls Sample once per tick.
type Sampler struct {
	mu          sync.Mutex
	sensitivity float32
	enabled     bool
	pitch       float32
	yaw         float32
	lookX       float32
	lookY       float32
	keys        Keys
}

func NewSampler(sensitivity, pitch, yaw float32) *Sampler {
	return &Sampler{
		sensitivity: sensitivity,
		enabled:     true,
		pitch:       ClampPitch(pitch),
		yaw:         WrapYaw(yaw),
	}
}

// Look adds a raw pointer delta in device units.
func (s *Sampler) Look(dx, dy float32) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.lookX += dx
	s.lookY += dy
	s.mu.Unlock()
}

func (s *Sampler) SetKeys(keys Keys) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
}

func (s *Sampler) Keys() Keys {
	if s == nil {
		return Keys{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

// SetEnabled mirrors cursor grab. While disabled, pending look deltas are
// dropped and Sample reports no movement, jump or crouch.
func (s *Sampler) SetEnabled(enabled bool) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.enabled = enabled
	s.lookX, s.lookY = 0, 0
	s.mu.Unlock()
}

func (s *Sampler) Enabled() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Reset sets the accumulated view angles, e.g. after a respawn.
func (s *Sampler) Reset(pitch, yaw float32) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pitch = ClampPitch(pitch)
	s.yaw = WrapYaw(yaw)
	s.lookX, s.lookY = 0, 0
	s.mu.Unlock()
}

// Sample consumes the pending look delta and returns this tick's intent.
func (s *Sampler) Sample() Intent {
	if s == nil {
		return Intent{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return Intent{Pitch: s.pitch, Yaw: s.yaw}
	}

	s.pitch = ClampPitch(s.pitch - s.lookY*s.sensitivity)
	s.yaw = WrapYaw(s.yaw - s.lookX*s.sensitivity)
	s.lookX, s.lookY = 0, 0

	return Intent{
		Movement: s.keys.axes(),
		Crouch:   s.keys.Crouch,
		Jump:     s.keys.Jump,
		Pitch:    s.pitch,
		Yaw:      s.yaw,
	}
}
