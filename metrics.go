package kiln

import "github.com/danpasecinic/kiln/internal/container"

type ResolveHook = container.ResolveHook

type DisposeHook = container.DisposeHook
