/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  accessor.go - Accés aleatori a una finestra de bytes. Tots els
 *                formats es decodifiquen a través d'aquesta
 *                interfície.
 */

package utils

import (
  "fmt"
  "os"

  "golang.org/x/text/encoding/unicode"
)


/************/
/* ACCESSOR */
/************/

type Accessor interface {

  // Torna la grandària en bytes de la finestra.
  Len() int64

  // Llig len(buf) bytes a partir d'offset. Llegir fora de la
  // finestra torna un error que embolcalla ErrOutOfRange.
  Read(buf []byte, offset int64) error

}


type MutableAccessor interface {

  Accessor

  // Escriu len(buf) bytes a partir d'offset. Escriure fora de la
  // finestra torna un error que embolcalla ErrOutOfRange.
  Write(buf []byte, offset int64) error

}


// Comprova que [offset,offset+length) cap en una finestra de
// grandària size.
func checkWindow( size int64, offset int64, length int64 ) error {

  if offset < 0 || length < 0 || offset+length > size {
    return fmt.Errorf ( "segment (offset:%d, length:%d) is out of"+
      " bounds (length:%d): %w", offset, length, size, ErrOutOfRange )
  }

  return nil

} // end checkWindow


/****************/
/* MEM ACCESSOR */
/****************/

// Accessor sobre un slice de bytes en memòria.
type MemAccessor struct {
  data []byte
}


func NewMemAccessor( data []byte ) *MemAccessor {
  return &MemAccessor{
    data: data,
  }
} // end NewMemAccessor


func (self *MemAccessor) Len() int64 {
  return int64(len(self.data))
} // end Len


func (self *MemAccessor) Read( buf []byte, offset int64 ) error {

  if err:= checkWindow ( self.Len (), offset, int64(len(buf)) ); err != nil {
    return err
  }
  copy ( buf, self.data[offset:] )

  return nil

} // end Read


func (self *MemAccessor) Write( buf []byte, offset int64 ) error {

  if err:= checkWindow ( self.Len (), offset, int64(len(buf)) ); err != nil {
    return err
  }
  copy ( self.data[offset:], buf )

  return nil

} // end Write


/*****************/
/* FILE ACCESSOR */
/*****************/

// Accessor sobre un fitxer del disc. Les lectures empren ReadAt, per
// la qual cosa és segur compartir-lo entre fils.
type FileAccessor struct {

  f        *os.File
  size     int64
  writable bool

}


func NewFileAccessor( file_name string ) (*FileAccessor,error) {

  f,err:= os.Open ( file_name )
  if err != nil { return nil,err }
  info,err:= f.Stat ()
  if err != nil { f.Close (); return nil,err }

  ret:= FileAccessor{
    f: f,
    size: info.Size (),
  }

  return &ret,nil

} // end NewFileAccessor


func NewFileAccessorRW( file_name string ) (*FileAccessor,error) {

  f,err:= os.OpenFile ( file_name, os.O_RDWR, 0666 )
  if err != nil { return nil,err }
  info,err:= f.Stat ()
  if err != nil { f.Close (); return nil,err }

  ret:= FileAccessor{
    f: f,
    size: info.Size (),
    writable: true,
  }

  return &ret,nil

} // end NewFileAccessorRW


func (self *FileAccessor) Close() error {
  return self.f.Close ()
} // end Close


func (self *FileAccessor) Len() int64 {
  return self.size
} // end Len


func (self *FileAccessor) Read( buf []byte, offset int64 ) error {

  if err:= checkWindow ( self.size, offset, int64(len(buf)) ); err != nil {
    return err
  }
  n,err:= self.f.ReadAt ( buf, offset )
  if err != nil { return err }
  if n != len(buf) {
    return fmt.Errorf ( "unexpected error occurred while reading %d bytes"+
      " at offset %d", len(buf), offset )
  }

  return nil

} // end Read


func (self *FileAccessor) Write( buf []byte, offset int64 ) error {

  if !self.writable {
    return fmt.Errorf ( "accessor is read-only: %w", ErrNotSupported )
  }
  if err:= checkWindow ( self.size, offset, int64(len(buf)) ); err != nil {
    return err
  }
  n,err:= self.f.WriteAt ( buf, offset )
  if err != nil { return err }
  if n != len(buf) {
    return fmt.Errorf ( "unexpected error occurred while writing %d bytes"+
      " at offset %d", len(buf), offset )
  }

  return nil

} // end Write


/****************/
/* SUB ACCESSOR */
/****************/

// Finestra lògica sobre un altre accessor. No copia res, tradueix
// offsets. Es poden encadenar.
type subAccessor struct {

  parent Accessor
  offset int64
  length int64

}


// Crea un accessor que representa la finestra
// [offset,offset+length) del pare.
func Slice( a Accessor, offset int64, length int64 ) (Accessor,error) {

  if err:= checkWindow ( a.Len (), offset, length ); err != nil {
    return nil,err
  }

  // Evita encadenar finestres innecessàriament.
  if tmp,ok:= a.(*subAccessor); ok {
    return &subAccessor{
      parent: tmp.parent,
      offset: tmp.offset + offset,
      length: length,
    },nil
  }

  return &subAccessor{
    parent: a,
    offset: offset,
    length: length,
  },nil

} // end Slice


func (self *subAccessor) Len() int64 {
  return self.length
} // end Len


func (self *subAccessor) Read( buf []byte, offset int64 ) error {

  if err:= checkWindow ( self.length, offset, int64(len(buf)) ); err != nil {
    return err
  }

  return self.parent.Read ( buf, self.offset+offset )

} // end Read


func (self *subAccessor) Write( buf []byte, offset int64 ) error {

  mut,ok:= self.parent.(MutableAccessor)
  if !ok {
    return fmt.Errorf ( "accessor is read-only: %w", ErrNotSupported )
  }
  if err:= checkWindow ( self.length, offset, int64(len(buf)) ); err != nil {
    return err
  }

  return mut.Write ( buf, self.offset+offset )

} // end Write


/*********************/
/* LECTURES TIPADES */
/*********************/

func ReadU8( a Accessor, offset int64 ) (uint8,error) {

  var buf [1]byte
  if err:= a.Read ( buf[:], offset ); err != nil {
    return 0,err
  }

  return buf[0],nil

} // end ReadU8


func ReadU16( a Accessor, offset int64 ) (uint16,error) {

  var buf [2]byte
  if err:= a.Read ( buf[:], offset ); err != nil {
    return 0,err
  }

  return uint16(buf[0]) | (uint16(buf[1])<<8),nil

} // end ReadU16


func ReadU32( a Accessor, offset int64 ) (uint32,error) {

  var buf [4]byte
  if err:= a.Read ( buf[:], offset ); err != nil {
    return 0,err
  }

  return uint32(buf[0]) |
    (uint32(buf[1])<<8) |
    (uint32(buf[2])<<16) |
    (uint32(buf[3])<<24),nil

} // end ReadU32


func ReadU64( a Accessor, offset int64 ) (uint64,error) {

  var buf [8]byte
  if err:= a.Read ( buf[:], offset ); err != nil {
    return 0,err
  }

  return uint64(buf[0]) |
    (uint64(buf[1])<<8) |
    (uint64(buf[2])<<16) |
    (uint64(buf[3])<<24) |
    (uint64(buf[4])<<32) |
    (uint64(buf[5])<<40) |
    (uint64(buf[6])<<48) |
    (uint64(buf[7])<<56),nil

} // end ReadU64


// Llig una cadena ASCII/UTF-8 de grandària coneguda.
func ReadString( a Accessor, offset int64, length int64 ) (string,error) {

  buf:= make([]byte,length)
  if err:= a.Read ( buf, offset ); err != nil {
    return "",err
  }

  return string(buf),nil

} // end ReadString


// Llig una cadena UTF-16LE de nbytes bytes.
func ReadUTF16String( a Accessor, offset int64, nbytes int64 ) (string,error) {

  buf:= make([]byte,nbytes)
  if err:= a.Read ( buf, offset ); err != nil {
    return "",err
  }
  dec:= unicode.UTF16(unicode.LittleEndian,unicode.IgnoreBOM).NewDecoder ()
  aux,err:= dec.Bytes ( buf )
  if err != nil { return "",err }

  return string(aux),nil

} // end ReadUTF16String
