package ripple

import "weak"

// View is the presentation layer a Form drives. How each state is rendered
// (colors, enabled controls) is up to the implementation.
type View interface {
	ShowUsername(Availability)
	ShowChecking(bool)
	ShowPasswordLength(ok bool)
	ShowPasswordCharacters(ok bool)
	ShowPasswordsMatch(ok bool)
	SetSubmitEnabled(enabled bool)
}

// Bind subscribes view to every output of f. The form holds view only
// through a weak pointer: once view is unreachable elsewhere, callbacks
// become no-ops instead of keeping it alive.
//
// The returned Bag is also owned by f, so either Bag.Dispose or f.Close
// tears the binding down.
func Bind[V any, P interface {
	*V
	View
}](f *Form, view P) *Bag {
	ref := weak.Make((*V)(view))
	with := func(fn func(View)) {
		if v := ref.Value(); v != nil {
			fn(P(v))
		}
	}

	bag := NewBag()
	bag.Add(
		f.UsernameAvailability().Subscribe(func(a Availability) {
			with(func(v View) { v.ShowUsername(a) })
		}),
		f.Checking().Subscribe(func(busy bool) {
			with(func(v View) { v.ShowChecking(busy) })
		}),
		f.PasswordLengthValid().Subscribe(func(ok bool) {
			with(func(v View) { v.ShowPasswordLength(ok) })
		}),
		f.PasswordCharactersValid().Subscribe(func(ok bool) {
			with(func(v View) { v.ShowPasswordCharacters(ok) })
		}),
		f.PasswordsMatch().Subscribe(func(ok bool) {
			with(func(v View) { v.ShowPasswordsMatch(ok) })
		}),
		f.AllValid().Subscribe(func(ok bool) {
			with(func(v View) { v.SetSubmitEnabled(ok) })
		}),
	)
	f.Own(newSubscription(bag.Dispose))
	return bag
}
