/*
Package sqldataset provides datasets backed by SQL databases.

Samples are stored in a single table, samples, with an
autoincremented id column, one INTEGER column per feature
holding 0 or 1 and a label column. The order of the feature
columns in the table is the order of the features.
*/
package sqldataset
