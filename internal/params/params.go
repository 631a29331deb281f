package params

const (
	// SecParam is the statistical security parameter.
	SecParam = 256

	// SecBytes is SecParam in bytes.
	SecBytes = SecParam / 8

	// UniformBytes is the number of uniform bytes fed to hash-to-group and
	// wide scalar reduction, chosen so the bias is negligible.
	UniformBytes = 2 * SecBytes
)
