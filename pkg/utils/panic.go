package utils

// PanicIfNeeded panics on a non-nil error so the recovery middleware maps it
// to the proper HTTP response.
func PanicIfNeeded(err error) {
	if err != nil {
		panic(err)
	}
}
