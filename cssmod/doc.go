// Package cssmod keeps CSS module files in step with the components
// that use them.
//
// A component Foo.tsx (or Foo.jsx) refers to classes of Foo.module.css
// through an imported styles object: styles.title or styles["title-x"].
// Syncing a component reorders the rules of its module so that they
// follow the order in which the component uses the classes, adds empty
// rules for classes that have none, and marks rules of classes that are
// no longer used.
package cssmod
