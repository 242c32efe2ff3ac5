package vorbis

// channelOrderTable maps channel count to the Vorbis-index written at
// each output slot. A count beyond the table uses the identity order.
var channelOrderTable = map[int][]int{
	1: {0},
	2: {0, 1},
	3: {0, 2, 1},
	4: {0, 1, 2, 3},
	5: {0, 2, 1, 3, 4},
	6: {0, 2, 1, 4, 5, 3},
	7: {0, 2, 1, 5, 6, 4, 3},
	8: {0, 2, 1, 6, 7, 4, 5, 3},
}

// ChannelOrder returns the output-slot-to-Vorbis-channel permutation
// for the given channel count.
func ChannelOrder(channels int) []int {
	if order, ok := channelOrderTable[channels]; ok {
		return order
	}
	identity := make([]int, channels)
	for i := range identity {
		identity[i] = i
	}
	return identity
}
