// Package i18n translates validation errors by their translation keys.
//
// Messages are nested trees per language, loaded from JSON or YAML
// documents:
//
//	en:
//	  validation:
//	    required: "%{field} is required"
//	    min: "%{field} must be at least %{min}"
//	uk:
//	  validation:
//	    required: "%{field} є обов'язковим"
//
// A translation key such as "validation.min" addresses a leaf; %{name}
// placeholders are filled from the error's translation values.
//
//	tr, err := i18n.NewTranslator(ctx, i18n.FSSource{FS: os.DirFS("messages")})
//	if err != nil {
//		return err
//	}
//	localized := tr.Errors(tr.Match(tag), res.Errors)
//
// Keys missing in the requested language fall back to the default language;
// errors without any translation keep their original message.
package i18n
