// Package grapetree is a hierarchical path router. A tree of route declarations
// is matched against paths of arbitrary tokens; moving between paths runs exit
// hooks on the routes being left and enter hooks on the routes being entered.
//
// # Defining Routes
//
// The function passed to New configures the top-level route. Every route is
// configured by the RouteFunc of the declaration that matched it, and can declare
// children, hooks, an error handler, a default and a redirect:
//
//	rt := grapetree.New(func(r *grapetree.Route, _ ...grapetree.Token) error {
//		r.Enter(func(ctx context.Context, _ any) (any, error) {
//			return loadSession(ctx)
//		})
//
//		r.Route("users", func(r *grapetree.Route, _ ...grapetree.Token) error {
//			r.Route(grapetree.Param, func(r *grapetree.Route, params ...grapetree.Token) error {
//				id := params[0]
//				r.Enter(func(ctx context.Context, session any) (any, error) {
//					return showUser(ctx, session, id)
//				})
//				r.Exit(func(ctx context.Context, session any, distance int) error {
//					return hideUser(ctx)
//				})
//				return nil
//			})
//			return nil
//		})
//
//		r.Default(func(r *grapetree.Route, remainder any) error {
//			r.Enter(func(context.Context, any) (any, error) {
//				return nil, showNotFound(remainder)
//			})
//			return nil
//		})
//		return nil
//	})
//
// Route functions run again on every traversal; they should only configure the
// route they are given. Declarations are matched in registration order and the
// first match wins. A Param position matches any non-nil token and passes it to
// the RouteFunc.
//
// # Transitions
//
// Go returns an async.ExecFuture. Transitions never overlap: a request arriving
// while another runs waits in a queue. A waiting soft request (the default) is
// rejected with ErrSuperseded when a newer soft request arrives; hard requests
// made with WithSoftQueue(false) always run, oldest first.
//
//	if err := rt.Go(ctx, []string{"users", "42"}).Await(); err != nil {
//		return err
//	}
//
// The first Go enters the top-level route. Going to the active path is a no-op.
// Otherwise routes below the first differing token exit leaf first and the new
// routes enter root first. Each enter hook receives the value returned by its
// parent's enter hook; exit hooks receive the parent value and their distance
// from the divergence point, starting at 1.
//
// # Errors
//
// Routing errors (no declaration or default matched, a failing RouteFunc, a
// configuration error) fail Go before any hook runs and leave the router
// unchanged. A NoRouteError formats as "No route matched path: <json>".
//
// Hook errors are offered to the error handlers of the failing route and its
// ancestors, deepest first. A handler absorbs the error by returning nil; a
// returned error continues upward from the next ancestor. ErrorInfo.Location
// lists the segments between the handling route and where the error started.
// An error no handler absorbs rejects the future as a *HookError. Changes made
// before the failure stay committed: an enter failure stops entering at the
// failing route, an absorbed enter failure keeps that route active.
//
// # Notifications
//
// OnChange registers synchronous listeners and Subscribe returns a channel
// subscription. Both receive a Change whenever a transition changed the active
// path, unless the request was made with WithEmit(false).
//
// # Path Representation
//
// Without a transform Go accepts Path, []any, []string and []int. TransformPath
// or WithTransform installs a bidirectional conversion, for example
// DelimitedTransform("."), after which Go, Current, defaults and notifications
// use the external form.
package grapetree
