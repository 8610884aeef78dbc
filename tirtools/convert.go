package tirtools

import "math"

// DNToRadiance converts a raw digital number to at-sensor spectral radiance
// for the given TIR band. DN 0 is the no-data sentinel and is never passed
// here by the zonal pipeline; callers converting scalars are responsible for
// screening it themselves.
func DNToRadiance(dn float64, band int) (float64, error) {
	if err := validateBand(band); err != nil {
		return 0, err
	}
	return (dn - 1) * ucc[band-MinBand], nil
}

// RadianceToBrightnessTemp inverts the Planck function for the band's
// effective central wavelength, returning brightness temperature in Kelvin.
// Radiance at or below zero has no physical temperature and maps to NaN.
func RadianceToBrightnessTemp(rad float64, band int) (float64, error) {
	if err := validateBand(band); err != nil {
		return 0, err
	}
	if rad <= 0 {
		return math.NaN(), nil
	}
	i := band - MinBand
	return k2[i] / math.Log(k1[i]/rad+1), nil
}

// convertGrid applies DN->radiance->temperature in place over a block buffer.
// NaN entries (masked or no-data pixels) pass through untouched.
func convertGrid(buf []float64, band int) error {
	if err := validateBand(band); err != nil {
		return err
	}
	i := band - MinBand
	for pix, dn := range buf {
		if math.IsNaN(dn) {
			continue
		}
		rad := (dn - 1) * ucc[i]
		if rad <= 0 {
			buf[pix] = math.NaN()
			continue
		}
		buf[pix] = k2[i] / math.Log(k1[i]/rad+1)
	}
	return nil
}
