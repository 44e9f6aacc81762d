// Package courses manages the course catalog and the classes scheduled
// within each course.
//
// Writes are admin-only by route policy; reads require any
// authenticated principal. Deleting a course removes its classes.
package courses
