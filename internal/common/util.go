package common

// WipeByteArray zeroes b. Passwords read from the terminal are wiped once the
// request body has been built. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
