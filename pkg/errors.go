// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Temel error'lar (ErrNotFound, ErrForbidden, ...) bir "tür" (kind) belirtir.
// Özel durumlar (ErrNotFriends, ErrDuplicatePending, ...) bu türleri wrap eder,
// böylece hem genel hem özel kontrol yapılabilir:
//
//	errors.Is(err, pkg.ErrNotFriends)  // özel durum
//	errors.Is(err, pkg.ErrForbidden)   // genel tür → 403
package pkg

import (
	"errors"
	"fmt"
)

// Domain-level error türleri.
// Handler katmanı bunları HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// Sosyal graf ve mesajlaşmaya özgü durumlar.
var (
	ErrSelfRequest      = fmt.Errorf("%w: you cannot add yourself", ErrBadRequest)
	ErrAlreadyFriends   = fmt.Errorf("%w: you are already friends", ErrAlreadyExists)
	ErrDuplicatePending = fmt.Errorf("%w: a friend request already exists", ErrAlreadyExists)
	ErrNotFriends       = fmt.Errorf("%w: you can only message friends", ErrForbidden)
)
