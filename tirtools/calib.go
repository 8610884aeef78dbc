package tirtools

import (
	"errors"
	"fmt"
)

// ASTER thermal-infrared bands run from 10 to 14.
const (
	MinBand = 10
	MaxBand = 14
)

var ErrInvalidBand = errors.New("band must be a TIR band in 10..14")

// Radiometric calibration constants for the TIR bands, indexed by band - 10.
// ucc is the DN-to-radiance unit conversion coefficient (normal gain,
// W/m^2/sr/um per DN); k1 and k2 are the effective Planck-inversion
// constants for each band's central wavelength.
var (
	ucc = [5]float64{6.822e-3, 6.780e-3, 6.590e-3, 5.693e-3, 5.225e-3}
	k1  = [5]float64{3047.47, 2480.93, 1930.80, 865.65, 649.60}
	k2  = [5]float64{1736.18, 1666.21, 1584.72, 1349.82, 1274.49}
)

func validateBand(band int) error {
	if band < MinBand || band > MaxBand {
		return fmt.Errorf("%w: got %d", ErrInvalidBand, band)
	}
	return nil
}
