package physics

const (
	// CollisionTolerance is the penetration depth below which two volumes
	// are considered touching rather than overlapping.
	CollisionTolerance = 1e-4

	// Epsilon guards normalizations and divisions against near-zero lengths.
	Epsilon = 1e-6

	sweepStep            = 1.0 / 16.0
	sweepRefineIter      = 16
	maxPenetrationLift   = 0.5
	minimumNormalLength  = 1e-5
	rayCastMaxIterations = 4096
)
