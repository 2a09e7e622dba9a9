package tui

import "fmt"

// Comma formats an integer with comma separators.
func Comma[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) string {
	// Convert to uint64 for processing
	val := uint64(v)
	if val == 0 {
		return "0"
	}

	// Calculate the number of digits and commas needed.
	var count byte
	for n := val; n != 0; n = n / 10 {
		count++
	}
	count += (count - 1) / 3

	// Create an output slice to hold the formatted number.
	output := make([]byte, count)
	j := len(output) - 1

	// Populate the output slice with digits and commas.
	var counter byte
	for val > 9 {
		output[j] = byte(val%10) + '0'
		val = val / 10
		j--
		if counter == 2 {
			counter = 0
			output[j] = ','
			j--
		} else {
			counter++
		}
	}

	output[j] = byte(val) + '0'

	return string(output)
}

// Thousands formats a uint64 count using comma separators, or falls back to %v for other types.
func Thousands(val any) string {
	if number, ok := val.(uint64); ok {
		return Comma(number)
	}
	return fmt.Sprintf("%v", val)
}

