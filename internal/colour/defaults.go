package colour

// defaultTarget is the 16 colour destination palette.
var defaultTarget = []RGB{
	{140, 143, 174}, // 1: #8c8fae
	{88, 69, 99},    // 2: #584563
	{62, 33, 55},    // 3: #3e2137
	{154, 99, 72},   // 4: #9a6348
	{215, 155, 125}, // 5: #d79b7d
	{245, 237, 186}, // 6: #f5edba
	{192, 199, 65},  // 7: #c0c741
	{100, 125, 52},  // 8: #647d34
	{228, 148, 58},  // 9: #e4943a
	{157, 48, 59},   // 10: #9d303b
	{210, 100, 113}, // 11: #d26471
	{112, 55, 127},  // 12: #70377f
	{126, 196, 193}, // 13: #7ec4c1
	{52, 133, 157},  // 14: #34859d
	{23, 67, 75},    // 15: #17434b
	{31, 14, 28},    // 16: #1f0e1c
}

// defaultLegacy mirrors the table in core/palette.lua, six entries per row.
var defaultLegacy = []Normalised{
	{0.047, 0.055, 0.090}, {0.090, 0.110, 0.165}, {0.145, 0.165, 0.220}, {0.200, 0.210, 0.255}, {0.255, 0.260, 0.290}, {0.340, 0.345, 0.365},
	{0.165, 0.220, 0.145}, {0.110, 0.165, 0.120}, {0.145, 0.120, 0.130}, {0.120, 0.137, 0.170}, {0.310, 0.380, 0.480}, {0.820, 0.620, 0.310},
	{0.850, 0.720, 0.530}, {0.780, 0.790, 0.780}, {0.220, 0.155, 0.165}, {0.420, 0.310, 0.220}, {0.310, 0.380, 0.200}, {0.580, 0.420, 0.200},
	{0.840, 0.850, 0.870}, {0.530, 0.540, 0.560}, {0.260, 0.270, 0.290}, {0.800, 0.830, 0.790}, {0.490, 0.520, 0.490}, {0.230, 0.260, 0.240},
	{0.830, 0.810, 0.780}, {0.520, 0.490, 0.470}, {0.270, 0.250, 0.240}, {0.790, 0.820, 0.870}, {0.480, 0.510, 0.570}, {0.230, 0.250, 0.300},
	{0.220, 0.230, 0.180}, {0.165, 0.180, 0.140}, {0.310, 0.300, 0.280}, {0.220, 0.165, 0.150}, {0.110, 0.095, 0.095}, {0.380, 0.480, 0.255},
	{0.075, 0.110, 0.075}, {0.035, 0.030, 0.045}, {0.980, 0.910, 0.160}, {0.900, 0.780, 0.060}, {0.660, 0.540, 0.040}, {0.100, 0.500, 0.950},
	{0.950, 0.550, 0.100}, {0.900, 0.700, 0.100}, {0.850, 0.200, 0.150}, {0.400, 0.450, 0.500}, {0.200, 0.220, 0.260}, {0.600, 0.630, 0.680},
	{0.784, 0.835, 0.725}, {0.561, 0.682, 0.482}, {0.322, 0.478, 0.322}, {0.949, 0.835, 0.494}, {0.910, 0.788, 0.627}, {0.761, 0.584, 0.420},
	{0.478, 0.361, 0.259}, {0.494, 0.784, 0.890}, {0.769, 0.722, 0.831}, {0.545, 0.471, 0.651}, {0.353, 0.302, 0.431}, {0.949, 0.647, 0.494},
	{0.722, 0.847, 0.910}, {0.478, 0.686, 0.769}, {0.290, 0.478, 0.561}, {0.910, 0.722, 0.494},
}

// DefaultTargetPalette returns the compiled-in 16 colour target palette.
func DefaultTargetPalette() *TargetPalette {
	return &TargetPalette{colours: append([]RGB(nil), defaultTarget...)}
}

// DefaultLegacyPalette returns the compiled-in 64 colour legacy palette.
func DefaultLegacyPalette() *LegacyPalette {
	return &LegacyPalette{colours: append([]Normalised(nil), defaultLegacy...)}
}
