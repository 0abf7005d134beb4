package backend

import "context"

// Unavailable returns a Store whose every operation fails with err. It stands
// in for a backend that could not be opened, so that startup never fails
// outright: the capability probe rejects the store and negotiation degrades
// to a weaker mode instead.
func Unavailable(name string, err error) Store {
	return &unavailable{name: name, err: err}
}

type unavailable struct {
	name string
	err  error
}

func (u *unavailable) Name() string                                  { return u.name }
func (u *unavailable) Get(context.Context, string) (string, error)   { return "", u.err }
func (u *unavailable) Set(context.Context, string, string) error     { return u.err }
func (u *unavailable) Delete(context.Context, string) error          { return u.err }
func (u *unavailable) Scan(context.Context, string, func(string, string) bool) error {
	return u.err
}
func (u *unavailable) Close() error { return nil }
