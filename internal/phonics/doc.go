// Package phonics holds the teaching content attached to each key: the
// picture word for every letter, phonetic sounds, spoken names for digits
// and control keys, and the finger that should press the key.
//
// Everything here is static lookup data. Nothing in the package keeps state,
// so it is safe to use from any goroutine.
//
// Usage:
//
//	info := phonics.Info("b")
//	fmt.Printf("%s %s %s\n", info.Emoji, strings.ToUpper(string(info.Key)), info.Name)
//	// 🐻 B is for Bear
package phonics
