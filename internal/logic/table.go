package logic

// LogTable maps a linear brightness level (index) to a PWM on-duration.
// Human brightness perception is roughly logarithmic, so the curve is
// shallow at the bottom and steep at the top. Values above FramePeriod
// saturate to a fully-on frame.
var LogTable = [MaxBrightness + 1]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 13, 15, 16, 17, 18, 20, 21, 22,
	24, 25, 27, 28, 30, 31, 33, 34, 36, 37, 39, 41, 42, 44, 46, 48, 49, 51,
	53, 55, 57, 59, 61, 63, 65, 67, 69, 72, 74, 76, 78, 81, 83, 85, 88, 90,
	93, 96, 98, 101, 104, 106, 109, 112, 115, 118, 121, 124, 127, 130, 133,
	137, 140, 143, 147, 150, 154, 158, 161, 165, 169, 173, 177, 181, 185, 189,
	193, 197, 202, 206, 211, 215, 220, 225, 230, 235, 240, 245, 250, 255,
}
