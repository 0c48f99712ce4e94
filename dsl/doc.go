// Package dsl builds bsonskema schemas.
//
// Every schema variant has a builder with accumulation methods, Defer for
// callbacks run at the start of Build, Build returning (*Schema, error) and
// MustBuild which panics with the *bsonskema.ConfigError:
//
//	type User struct {
//		ID    bsonskema.ID
//		Name  string
//		Email *string
//		Tags  []string
//	}
//
//	var userSchema = dsl.Object[User]().
//		Add(dsl.Field[User, bsonskema.ID]("_id").Schema(dsl.LenientID()).
//			Accessors(func(u User) bsonskema.ID { return u.ID }, func(u *User, v bsonskema.ID) { u.ID = v }).
//			Index(true).MustBuild()).
//		Add(dsl.Field[User, string]("name").Schema(dsl.String()).
//			Accessors(func(u User) string { return u.Name }, func(u *User, v string) { u.Name = v }).
//			Required().MustBuild()).
//		Add(dsl.Field[User, *string]("email").Schema(dsl.Optional[string](dsl.String())).
//			Accessors(func(u User) *string { return u.Email }, func(u *User, v *string) { u.Email = v }).
//			MustBuild()).
//		Add(dsl.Field[User, []string]("tags").Schema(dsl.ArrayOf[string](dsl.String())).
//			Accessors(func(u User) []string { return u.Tags }, func(u *User, v []string) { u.Tags = v }).
//			MustBuild()).
//		MustBuild()
//
// Built schemas are immutable and safe for concurrent use. Schemas that refer
// to themselves use Lazy or Ref for the recursive edge.
package dsl
