package report

var WriteRows = writeRows
